package cafe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/eun2ce/uha-backend/pkg/config"
)

// encodeEUCKR mimics the legacy cafe pages, which are not UTF-8.
func encodeEUCKR(t *testing.T, s string) []byte {
	t.Helper()
	encoded, _, err := transform.String(korean.EUCKR.NewEncoder(), s)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return []byte(encoded)
}

func newTestScraper(t *testing.T, handler http.HandlerFunc) *Scraper {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(&config.CafeConfig{
		BaseURL:   server.URL,
		ClubID:    "12345",
		UserAgent: "Mozilla/5.0",
		Timeout:   5 * time.Second,
	})
}

const profilePage = `<html><body>
<div id="main-area">
  <h1 class="cafe_name">우하하 팬카페</h1>
  <div class="mcafe_icon"><img src="https://cafe.example/icon.jpg"></div>
  <table>
    <tr><td>항목1</td></tr><tr><td>항목2</td></tr><tr><td>항목3</td></tr>
    <tr><td>항목4</td></tr><tr><td>항목5</td></tr><tr><td>항목6</td></tr>
    <tr><td>항목7</td></tr><tr><td>항목8</td></tr><tr><td>항목9</td></tr>
    <tr><td>항목10</td></tr><tr><td>항목11</td></tr><tr><td>항목12</td></tr>
    <tr><td>항목13</td></tr>
    <tr><td><span>12,345</span>명</td></tr>
  </table>
</div>
</body></html>`

func TestProfile(t *testing.T) {
	scraper := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RequestURI(), "CafeProfileView.nhn") {
			t.Errorf("unexpected path: %s", r.URL.RequestURI())
		}
		if r.URL.Query().Get("clubid") != "12345" {
			t.Error("expected clubid in query")
		}
		w.Write(encodeEUCKR(t, profilePage))
	})

	profile, err := scraper.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.Name != "우하하 팬카페" {
		t.Errorf("Name = %q", profile.Name)
	}
	if profile.Thumbnail != "https://cafe.example/icon.jpg" {
		t.Errorf("Thumbnail = %q", profile.Thumbnail)
	}
	if profile.Members != "12,345" {
		t.Errorf("Members = %q", profile.Members)
	}
}

const articleListPage = `<html><body>
<div id="main-area">
  <ul class="article-movie-sub">
    <li>
      <a href="/ArticleRead.nhn?articleid=777">
        <span class="inner">  오늘 방송   후기  </span>
      </a>
      <div class="movie-img"><img src="https://cafe.example/thumb777.jpg"></div>
      <span class="m-tcol-c">열혈팬</span>
      <span class="date">2024.03.15.</span>
    </li>
    <li>
      <a href="/ArticleRead.nhn?articleid=778">
        <span class="inner">공지사항</span>
      </a>
      <span class="m-tcol-c">운영자</span>
      <span class="date">2024.03.14.</span>
    </li>
  </ul>
</div>
</body></html>`

func TestArticles(t *testing.T) {
	scraper := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("search.menuid") != "7" {
			t.Errorf("search.menuid = %q", query.Get("search.menuid"))
		}
		if query.Get("search.page") != "1" {
			t.Errorf("search.page = %q", query.Get("search.page"))
		}
		if query.Get("userDisplay") != "50" {
			t.Errorf("userDisplay = %q", query.Get("userDisplay"))
		}
		w.Write(encodeEUCKR(t, articleListPage))
	})

	articles, err := scraper.Articles(context.Background(), "7", "1")
	if err != nil {
		t.Fatalf("Articles() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "오늘 방송 후기" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Author != "열혈팬" {
		t.Errorf("Author = %q", first.Author)
	}
	if first.Date != "2024.03.15." {
		t.Errorf("Date = %q", first.Date)
	}
	if first.Link != "https://m.cafe.naver.com/ArticleRead.nhn?articleid=777" {
		t.Errorf("Link = %q", first.Link)
	}
	if first.Image != "https://cafe.example/thumb777.jpg" {
		t.Errorf("Image = %q", first.Image)
	}

	if articles[1].Image != "" {
		t.Errorf("second article should have no image, got %q", articles[1].Image)
	}
}

func TestProfileUnavailable(t *testing.T) {
	scraper := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := scraper.Profile(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestArticlesMissingList(t *testing.T) {
	scraper := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(encodeEUCKR(t, "<html><body><p>점검 중입니다</p></body></html>"))
	})

	_, err := scraper.Articles(context.Background(), "7", "1")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
