package metadata

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

const titleSuffix = " - YouTube"

func fromPage(ctx context.Context, id string) (*Video, error) {
	resp, err := get(ctx, pageBase+id)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Video{
		Title:        strings.TrimSuffix(pageTitle(doc), titleSuffix),
		Author:       authorName(doc),
		ThumbnailURL: fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", id),
	}, nil
}

func pageTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := pageTitle(c); title != "" {
			return title
		}
	}
	return ""
}

// authorName finds <link itemprop="name" content="...">.
func authorName(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "link" && attr(n, "itemprop") == "name" {
		if content := attr(n, "content"); content != "" {
			return content
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if content := authorName(c); content != "" {
			return content
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
