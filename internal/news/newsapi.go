package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/investment-tracker/internal/market"
	"github.com/iwvelando/investment-tracker/pkg/constants"
	"go.uber.org/zap"
)

// NewsAPI searches articles through newsapi.org.
type NewsAPI struct {
	logger  *zap.Logger
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewNewsAPI creates a client. An empty baseURL uses constants.DefaultNewsBaseURL.
func NewNewsAPI(logger *zap.Logger, baseURL, apiKey string, timeout time.Duration) *NewsAPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	if baseURL == "" {
		baseURL = constants.DefaultNewsBaseURL
	}
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}
	return &NewsAPI{
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type everythingResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Image  string `json:"urlToImage"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search returns the newest English articles matching query.
func (n *NewsAPI) Search(ctx context.Context, query string, limit int) ([]market.Headline, error) {
	q := url.Values{
		"q":        {query},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
		"pageSize": {strconv.Itoa(limit)},
		"apiKey":   {n.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/v2/everything?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	var body everythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding newsapi response: %w", err)
	}
	if body.Status != "ok" {
		return nil, fmt.Errorf("newsapi returned status %q: %s", body.Status, body.Message)
	}

	items := make([]market.Headline, 0, len(body.Articles))
	for _, a := range body.Articles {
		published, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			n.logger.Debug(fmt.Sprintf("unparseable publishedAt %q", a.PublishedAt),
				zap.String("op", "news.NewsAPI.Search"),
			)
		}
		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}
		items = append(items, market.Headline{
			Title:     a.Title,
			Link:      a.URL,
			Source:    source,
			Published: published,
			Thumbnail: a.Image,
		})
	}
	return items, nil
}
