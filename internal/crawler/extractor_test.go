package crawler

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zchut-crawler/internal/config"
)

const testSeed = "https://www.kolzchut.org.il/he/עמוד_ראשי"

// testSelectors mirrors the config defaults for the target site.
func testSelectors() config.Selectors {
	return config.Selectors{
		Heading:            "h1.firstHeading",
		Content:            "div#mw-content-text",
		Categories:         "div#catlinks",
		CategoryMembers:    "div#mw-pages",
		Excluded:           "nav, #toc, .toc, .navbox, .infobox, .mw-editsection",
		ArticlePathPrefix:  "/he/",
		ExcludedNamespaces: []string{"Special:", "File:"},
		RelatedLabel:       "ראו גם",
		NextPageLabel:      "הדף הבא",
	}
}

func parseHTML(t *testing.T, raw string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	require.NoError(t, err)
	return doc
}

const articleHTML = `<!DOCTYPE html>
<html lang="he" dir="rtl">
<head><title>זכויות עובדים – כל זכות</title></head>
<body>
<h1 class="firstHeading">זכויות עובדים</h1>
<div id="mw-content-text">
	<div id="toc"><ul><li>1 מבוא</li></ul></div>
	<p>פסקה ראשונה.</p>
	<h2>מבוא <span class="mw-editsection">[עריכה]</span></h2>
	<p>פסקה שנייה.</p>
	<ul>
		<li>סעיף ראשון</li>
		<li>סעיף שני</li>
	</ul>
	<table class="infobox"><tbody><tr><td><p>טקסט תיבת מידע</p></td></tr></tbody></table>
	<h2>ראו גם</h2>
	<ul>
		<li><a href="/he/פנסיה">פנסיה</a></li>
		<li><a href="#top">עוגן פנימי</a></li>
	</ul>
	<h2>הערות</h2>
	<p>הערה אחרונה.</p>
</div>
<div id="catlinks">
	<a href="/he/Category:עבודה">עבודה</a>
	<a href="/he/Category:זכויות">זכויות</a>
</div>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	ext, err := NewExtractor(testSelectors(), testSeed)
	require.NoError(t, err)

	doc := parseHTML(t, articleHTML)
	pageURL := "https://www.kolzchut.org.il/he/זכויות_עובדים"

	article, ok := ext.Extract(doc, pageURL)
	require.True(t, ok)

	assert.Equal(t, "זכויות עובדים", article.Title)
	assert.Equal(t, pageURL, article.URL)
	assert.False(t, article.CrawledAt.IsZero())

	// Document order, list items bulleted. The table of contents, the
	// infobox, and the "see also" section contribute nothing.
	wantContent := strings.Join([]string{
		"פסקה ראשונה.",
		"מבוא [עריכה]",
		"פסקה שנייה.",
		"• סעיף ראשון",
		"• סעיף שני",
		"הערות",
		"הערה אחרונה.",
	}, "\n\n")
	assert.Equal(t, wantContent, article.Content)

	assert.Equal(t, []string{"עבודה", "זכויות"}, article.Categories)

	// Fragment-only links are dropped, the rest resolved to absolute.
	wantRelated := []string{"https://www.kolzchut.org.il/he/" + url.PathEscape("פנסיה")}
	assert.Equal(t, wantRelated, article.RelatedURLs)
}

func TestExtractor_MissingTitleDegradesGracefully(t *testing.T) {
	const raw = `<html><body>
		<div id="mw-content-text"><p>p1</p><p>p2</p></div>
	</body></html>`

	ext, err := NewExtractor(testSelectors(), testSeed)
	require.NoError(t, err)

	article, ok := ext.Extract(parseHTML(t, raw), "https://www.kolzchut.org.il/he/דף")
	require.True(t, ok)

	assert.Equal(t, "", article.Title)
	assert.Equal(t, "p1\n\np2", article.Content)
}

func TestExtractor_NoContentRegionIsNotAnArticle(t *testing.T) {
	const raw = `<html><body><h1 class="firstHeading">כותרת</h1><p>בלי אזור תוכן</p></body></html>`

	ext, err := NewExtractor(testSelectors(), testSeed)
	require.NoError(t, err)

	article, ok := ext.Extract(parseHTML(t, raw), "https://www.kolzchut.org.il/he/דף")
	assert.False(t, ok)
	assert.Nil(t, article)
}

func TestExtractor_EmptyOptionalRegions(t *testing.T) {
	const raw = `<html><body>
		<h1 class="firstHeading">כותרת</h1>
		<div id="mw-content-text"><p>תוכן</p></div>
	</body></html>`

	ext, err := NewExtractor(testSelectors(), testSeed)
	require.NoError(t, err)

	article, ok := ext.Extract(parseHTML(t, raw), "https://www.kolzchut.org.il/he/דף")
	require.True(t, ok)

	assert.Empty(t, article.Categories)
	assert.Empty(t, article.RelatedURLs)
	assert.Equal(t, "תוכן", article.Content)
}
