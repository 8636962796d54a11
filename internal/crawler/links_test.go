package crawler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_Links(t *testing.T) {
	const raw = `<html><body>
	<nav><a href="/he/תפריט">תפריט</a></nav>
	<div id="mw-content-text">
		<a href="/he/דף_ראשון">דף ראשון</a>
		<a href="/he/דף_ראשון">כפילות</a>
		<a href="/he/Special:Random">מיוחד</a>
		<a href="/he/File:Logo.png">קובץ</a>
		<a href="/en/page">שפה אחרת</a>
		<a href="#section">עוגן</a>
		<a href="https://other.example.com/he/חיצוני">חיצוני</a>
		<a href="https://www.kolzchut.org.il/he/דף_שני#חלק">דף שני</a>
	</div>
	<a href="/he/מחוץ_לאזור">מחוץ לאזור התוכן</a>
	</body></html>`

	links, err := NewLinkExtractor(testSelectors(), testSeed)
	require.NoError(t, err)

	got := links.Links(parseHTML(t, raw))

	want := []string{
		"https://www.kolzchut.org.il/he/" + url.PathEscape("דף_ראשון"),
		"https://www.kolzchut.org.il/he/" + url.PathEscape("דף_שני"),
	}
	assert.Equal(t, want, got)
}

func TestLinkExtractor_Followable(t *testing.T) {
	links, err := NewLinkExtractor(testSelectors(), testSeed)
	require.NoError(t, err)

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"article", "https://www.kolzchut.org.il/he/פנסיה", true},
		{"cross origin", "https://example.com/he/פנסיה", false},
		{"wrong scheme", "http://www.kolzchut.org.il/he/פנסיה", false},
		{"special namespace", "https://www.kolzchut.org.il/he/Special:Random", false},
		{"file namespace", "https://www.kolzchut.org.il/he/File:Logo.png", false},
		{"outside article prefix", "https://www.kolzchut.org.il/w/index.php?title=x", false},
		{"unparsable", "https://www.kolzchut.org.il/he/%zz", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, links.Followable(tt.url))
		})
	}
}

func TestLinkExtractor_CategoryMembers(t *testing.T) {
	const raw = `<html><body>
	<div id="mw-pages">
		<a href="/he/זכויות_עובדים">זכויות עובדים</a>
		<a href="/he/פנסיה">פנסיה</a>
		<a href="/he/Category:תת_קטגוריה">תת קטגוריה</a>
		<a href="/w/index.php?title=Category:עבודה&pagefrom=פנסיה">הדף הבא</a>
	</div>
	</body></html>`

	links, err := NewLinkExtractor(testSelectors(), testSeed)
	require.NoError(t, err)

	members, next := links.CategoryMembers(parseHTML(t, raw))

	want := []string{
		"https://www.kolzchut.org.il/he/" + url.PathEscape("זכויות_עובדים"),
		"https://www.kolzchut.org.il/he/" + url.PathEscape("פנסיה"),
	}
	assert.Equal(t, want, members)
	assert.Contains(t, next, "https://www.kolzchut.org.il/w/index.php")
}

func TestLinkExtractor_NoCategoryRegion(t *testing.T) {
	links, err := NewLinkExtractor(testSelectors(), testSeed)
	require.NoError(t, err)

	members, next := links.CategoryMembers(parseHTML(t, `<html><body><p>לא קטגוריה</p></body></html>`))
	assert.Empty(t, members)
	assert.Equal(t, "", next)
}
