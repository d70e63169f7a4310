// Package uscode fetches bulk US Code XML from uscode.house.gov and reads
// section text out of the extracted USLM files. It supplies raw section
// text to the pipeline; segmentation itself never performs I/O.
package uscode

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// ErrNotFound reports that a requested unit does not exist in the source.
var ErrNotFound = errors.New("uscode: not found")

// bulkLinkTitle is the anchor title on the download page that points at the
// full-code ZIP.
const bulkLinkTitle = "All USC Titles in XML"

// Client downloads bulk US Code XML.
type Client struct {
	pageURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(pageURL string, log *slog.Logger) *Client {
	return &Client{
		pageURL: pageURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute, // the bulk ZIP is several hundred MB
		},
		log: log,
	}
}

// BulkXMLURL scrapes the download page for the bulk XML ZIP link.
func (c *Client) BulkXMLURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch download page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch download page: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse download page: %w", err)
	}

	href := findBulkLink(doc)
	if href == "" {
		return "", fmt.Errorf("no %q link on download page", bulkLinkTitle)
	}
	if !strings.HasPrefix(href, "http") {
		href = "https://uscode.house.gov" + href
	}
	return href, nil
}

// findBulkLink walks the HTML for an <a> whose title names the bulk ZIP.
func findBulkLink(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "a" {
		var title, href string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "title":
				title = attr.Val
			case "href":
				href = attr.Val
			}
		}
		if title == bulkLinkTitle && href != "" {
			return href
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if href := findBulkLink(child); href != "" {
			return href
		}
	}
	return ""
}

// Download streams url to dest, creating parent directories as needed.
func (c *Client) Download(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	c.log.Info("downloaded bulk archive", "url", url, "dest", dest, "bytes", n)
	return nil
}

// ExtractZip unpacks a downloaded archive into destDir, refusing entries
// that escape it.
func ExtractZip(zipPath, destDir string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create extract dir: %w", err)
	}

	for _, entry := range zr.File {
		target := filepath.Join(destDir, filepath.Clean(entry.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry escapes destination: %s", entry.Name)
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", target, err)
			}
			continue
		}
		if err := extractEntry(entry, target); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", target, err)
	}
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open zip entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	return nil
}

// SectionText looks up one section's raw text in an extracted XML
// directory by title and section number. A missing title file or section
// number reports ErrNotFound; callers treat that as nothing to segment.
func SectionText(dir, title, section string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("usc%s.xml", strings.TrimLeft(title, "0")))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("title %s: %w", title, ErrNotFound)
		}
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sections, err := ReadSections(f)
	if err != nil {
		return "", err
	}
	for _, s := range sections {
		if s.Num == section {
			return s.Body, nil
		}
	}
	return "", fmt.Errorf("section %s of title %s: %w", section, title, ErrNotFound)
}
