// Package fetch - platform.go detects where a résumé page is hosted and picks selectors for it.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known résumé hosting platform.
type Platform string

const (
	// PlatformGoogleDocs is a published Google Doc
	PlatformGoogleDocs Platform = "google_docs"
	// PlatformNotion is a public Notion page
	PlatformNotion Platform = "notion"
	// PlatformGitHub is a GitHub README or GitHub Pages site
	PlatformGitHub Platform = "github"
	// PlatformUnknown is an unrecognized host, usually a personal site
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the hosting platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	if host == "docs.google.com" {
		return PlatformGoogleDocs
	}

	if strings.HasSuffix(host, "notion.site") || strings.HasSuffix(host, "notion.so") {
		return PlatformNotion
	}

	if host == "github.com" || strings.HasSuffix(host, ".github.io") {
		return PlatformGitHub
	}

	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGoogleDocs:
		return []string{
			"#contents",
			".doc-content",
			"body",
		}
	case PlatformNotion:
		return []string{
			".notion-page-content",
			".notion-frame",
			"main",
		}
	case PlatformGitHub:
		return []string{
			"article.markdown-body",
			".markdown-body",
			"main",
			"article",
		}
	default:
		return ResumePageSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
		"button",
		"form",
	}

	switch platform {
	case PlatformGoogleDocs:
		return append(common,
			"#header",
			"#footer",
			"#banners",
		)
	case PlatformNotion:
		return append(common,
			".notion-topbar",
			".notion-help-button",
		)
	case PlatformGitHub:
		return append(common,
			".file-navigation",
			".Box-header",
			".js-repo-nav",
		)
	default:
		return common
	}
}
