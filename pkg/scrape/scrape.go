// Package scrape extracts community discussion text from Steam forums. The
// whole thread listing is walked, quoted comments and links are stripped so
// nothing is double counted, and every reply becomes one word-count
// document in the community corpus.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wordgap/wordgap/pkg/corpus"
)

const (
	browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// maxBodySize caps a single page read so an untrusted URL cannot OOM
	// the process.
	maxBodySize = 10 * 1024 * 1024
)

// Post is a discussion thread's opening post, cleaned and lowercased. The
// title and body are used verbatim as the generation prompt.
type Post struct {
	Title string
	Body  string
}

// Result pairs the opening posts with the community corpus built from the
// threads' replies.
type Result struct {
	Posts   []Post
	Replies corpus.Corpus
}

// Scraper fetches and parses Steam discussion pages.
type Scraper struct {
	Client *http.Client
	Log    *zap.SugaredLogger

	// Parallel bounds concurrent thread scrapes.
	Parallel int
}

// New returns a Scraper with a browser-like HTTP client.
func New(log *zap.SugaredLogger) *Scraper {
	return &Scraper{
		Client:   &http.Client{Timeout: 30 * time.Second},
		Log:      log,
		Parallel: 4,
	}
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", pageURL, err)
	}
	// Steam serves a challenge page to obvious bots.
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// DiscoverThreads pages through the forum listing (?fp=N, starting at 1)
// and returns every linked discussion thread URL. Paging stops at the
// first page with no thread links.
func (s *Scraper) DiscoverThreads(ctx context.Context, forumURL string) ([]string, error) {
	var links []string
	for page := 1; ; page++ {
		doc, err := s.fetch(ctx, fmt.Sprintf("%s?fp=%d", forumURL, page))
		if err != nil {
			return nil, err
		}

		found := 0
		doc.Find("a.forum_topic_overlay").Each(func(_ int, sel *goquery.Selection) {
			if href, ok := sel.Attr("href"); ok && href != "" {
				links = append(links, href)
				found++
			}
		})
		if found == 0 {
			break
		}
	}
	return links, nil
}

// Thread is one scraped discussion: the opening post plus the raw text of
// every reply.
type Thread struct {
	Post    Post
	Replies []string
}

// ScrapeThread walks a discussion's comment pages (?ctp=N). Threads without
// replies come back empty: they carry no community text worth comparing.
func (s *Scraper) ScrapeThread(ctx context.Context, threadURL string) (Thread, error) {
	var t Thread
	checkedReplies := false
	savedPost := false

	for page := 1; ; page++ {
		doc, err := s.fetch(ctx, fmt.Sprintf("%s?ctp=%d", threadURL, page))
		if err != nil {
			return Thread{}, err
		}

		// Links add nothing to the dataset, and quoted comments would be
		// counted twice.
		doc.Find("a").Remove()
		doc.Find("blockquote").Remove()

		if !checkedReplies {
			if replyCount(doc) <= 0 {
				s.logf("skipping thread without replies", "url", threadURL)
				return Thread{}, nil
			}
			checkedReplies = true
		}

		if !savedPost {
			t.Post = Post{
				Title: cleanText(doc.Find(".topic").First().Text()),
				Body:  cleanText(doc.Find(".forum_op .content").First().Text()),
			}
			savedPost = true
		}

		comments := doc.Find(".commentthread_comment_text")
		if comments.Length() == 0 {
			break
		}
		comments.Each(func(_ int, sel *goquery.Selection) {
			t.Replies = append(t.Replies, cleanText(sel.Text()))
		})
	}
	return t, nil
}

// replyCount reads the second topic-stats value, which Steam uses for the
// number of replies.
func replyCount(doc *goquery.Document) int {
	stats := doc.Find(".topicstats_value")
	if stats.Length() < 2 {
		return 0
	}
	raw := strings.ReplaceAll(strings.TrimSpace(stats.Eq(1).Text()), ",", "")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// cleanText normalizes scraped text into the lowercased, punctuation-free
// form the vectorizer expects.
func cleanText(text string) string {
	return strings.Join(corpus.Clean(text), " ")
}

// ScrapeAll discovers every thread under forumURL and scrapes them with
// bounded concurrency. Threads that fail to fetch or carry no usable
// content are logged and skipped; each surviving reply is vectorized into
// one community document.
func (s *Scraper) ScrapeAll(ctx context.Context, forumURL string) (*Result, error) {
	links, err := s.DiscoverThreads(ctx, forumURL)
	if err != nil {
		return nil, err
	}
	s.logf("discovered threads", "url", forumURL, "count", len(links))

	threads := make([]Thread, len(links))
	g, gctx := errgroup.WithContext(ctx)
	limit := s.Parallel
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, link := range links {
		i, link := i, link
		g.Go(func() error {
			t, err := s.ScrapeThread(gctx, link)
			if err != nil {
				// A single broken thread is missing content, not a
				// reason to abandon the whole scrape.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logf("thread scrape failed", "url", link, "err", err)
				return nil
			}
			threads[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, t := range threads {
		if len(t.Replies) == 0 || (t.Post.Title == "" && t.Post.Body == "") {
			continue
		}
		res.Posts = append(res.Posts, t.Post)
		for _, reply := range t.Replies {
			res.Replies = append(res.Replies, corpus.Vectorize(strings.Fields(reply)))
		}
	}
	s.logf("scrape complete", "posts", len(res.Posts), "replies", len(res.Replies))
	return res, nil
}

func (s *Scraper) logf(msg string, kv ...interface{}) {
	if s.Log != nil {
		s.Log.Infow(msg, kv...)
	}
}
