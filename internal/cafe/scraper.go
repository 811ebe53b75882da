package cafe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/eun2ce/uha-backend/pkg/config"
	"github.com/eun2ce/uha-backend/pkg/logging"
	"github.com/eun2ce/uha-backend/pkg/telemetry"
)

// ErrUnavailable is returned when the cafe pages cannot be fetched.
var ErrUnavailable = errors.New("cafe: page unavailable")

// Profile holds scraped cafe profile fields.
type Profile struct {
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
	Members   string `json:"members"`
}

// Article is a single scraped article list row.
type Article struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Date   string `json:"date"`
	Link   string `json:"link"`
	Image  string `json:"image,omitempty"`
	Text   string `json:"text"`
}

// Scraper fetches and parses Naver cafe pages. The cafe serves legacy EUC-KR
// encoded HTML, so responses are transcoded before parsing.
type Scraper struct {
	baseURL   string
	clubID    string
	userAgent string
	http      *http.Client
	logger    *zap.Logger
}

// New creates a new cafe scraper
func New(cfg *config.CafeConfig) *Scraper {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{
		baseURL:   cfg.BaseURL,
		clubID:    cfg.ClubID,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: timeout},
		logger:    logging.GetLogger().With(zap.String("component", "cafe-scraper")),
	}
}

// Profile scrapes the cafe profile page.
func (s *Scraper) Profile(ctx context.Context) (*Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "cafe.profile")
	defer span.End()

	doc, err := s.fetch(ctx, fmt.Sprintf("%s/CafeProfileView.nhn?clubid=%s", s.baseURL, url.QueryEscape(s.clubID)))
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		Name: textOf(findByClass(doc, "cafe_name")),
	}
	if icon := findByClass(doc, "mcafe_icon"); icon != nil {
		profile.Thumbnail = attrOf(findByTag(icon, "img"), "src")
	}
	// Member count sits in the 14th profile table row
	if main := findByID(doc, "main-area"); main != nil {
		if row := nthOfTag(main, "tr", 14); row != nil {
			profile.Members = textOf(findByTag(row, "span"))
		}
	}

	if profile.Name == "" {
		return nil, fmt.Errorf("cafe: profile fields missing: %w", ErrUnavailable)
	}
	return profile, nil
}

// Articles scrapes one page of the article list for a board menu.
func (s *Scraper) Articles(ctx context.Context, menuID, pageID string) ([]Article, error) {
	ctx, span := telemetry.StartSpan(ctx, "cafe.articles")
	defer span.End()

	listURL := fmt.Sprintf(
		"%s/ArticleList.nhn?search.clubid=%s&userDisplay=50&search.boardtype=C&search.cafeId=%s&search.page=%s&search.menuid=%s",
		s.baseURL, url.QueryEscape(s.clubID), url.QueryEscape(s.clubID), url.QueryEscape(pageID), url.QueryEscape(menuID))

	doc, err := s.fetch(ctx, listURL)
	if err != nil {
		return nil, err
	}

	main := findByID(doc, "main-area")
	if main == nil {
		return nil, fmt.Errorf("cafe: article list missing: %w", ErrUnavailable)
	}

	articles := make([]Article, 0)
	for _, list := range findAllByClass(main, "article-movie-sub") {
		for _, li := range findAllByTag(list, "li") {
			article := Article{
				Title:  collapseSpace(textOf(findByClass(li, "inner"))),
				Author: textOf(findByClass(li, "m-tcol-c")),
				Date:   textOf(findByClass(li, "date")),
			}
			if link := findByTag(li, "a"); link != nil {
				article.Link = "https://m.cafe.naver.com" + attrOf(link, "href")
				article.Text = collapseSpace(textOf(link))
			}
			if img := findByClass(li, "movie-img"); img != nil {
				article.Image = attrOf(findByTag(img, "img"), "src")
			}
			articles = append(articles, article)
		}
	}

	s.logger.Debug("Scraped article list",
		zap.String("menu_id", menuID),
		zap.Int("articles", len(articles)))
	return articles, nil
}

// fetch downloads a page, transcodes EUC-KR to UTF-8, and parses it.
func (s *Scraper) fetch(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cafe: status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	reader := transform.NewReader(resp.Body, korean.EUCKR.NewDecoder())
	doc, err := html.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}
