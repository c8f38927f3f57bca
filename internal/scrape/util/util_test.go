package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Senior Product   Manager \n", "Senior Product Manager"},
		{"\U0001F680 Product Lead \u2728", "Product Lead"},
		{"\uff30\uff52\uff4f\uff44\uff55\uff43\uff54 Owner", "Product Owner"},
		{"Zero\u200bWidth", "ZeroWidth"},
		{"\u20b9 12 LPA", "\u20b9 12 LPA"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanText(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeLocation(t *testing.T) {
	assert.Equal(t, "Pune, Maharashtra", NormalizeLocation("Location: Pune, Maharashtra, pune"))
	assert.Equal(t, "Bengaluru, Remote", NormalizeLocation("Bengaluru / Remote"))
	assert.Equal(t, "", NormalizeLocation("   "))
}

func TestInferWorkMode(t *testing.T) {
	assert.Equal(t, WorkRemote, InferWorkModeFromText("Remote, India", "", ""))
	assert.Equal(t, WorkHybrid, InferWorkModeFromText("Pune (Hybrid)", "", ""))
	assert.Equal(t, WorkOnsite, InferWorkModeFromText("Mumbai", "Product Manager - Onsite", ""))
	assert.Equal(t, WorkUnknown, InferWorkModeFromText("Delhi", "Product Manager", ""))
}

func TestCanonicalizeURL(t *testing.T) {
	got := CanonicalizeURL("HTTPS://WWW.Naukri.com/job/123?utm_source=x&b=2&a=1#top")
	assert.Equal(t, "https://www.naukri.com/job/123?a=1&b=2", got)

	got = CanonicalizeURL("https://in.linkedin.com/jobs/view/pm-at-acme-42?refId=abc&trackingId=def")
	assert.Equal(t, "https://in.linkedin.com/jobs/view/pm-at-acme-42", got)
}

func TestResolveURLAndSlug(t *testing.T) {
	assert.Equal(t, "https://in.indeed.com/viewjob?jk=1", ResolveURL("https://in.indeed.com/jobs?q=pm", "/viewjob?jk=1"))
	assert.Equal(t, "", ResolveURL("https://x.test", "javascript:void(0)"))
	assert.Equal(t, "https://a.test/x", ResolveURL("", "https://a.test/x"))

	assert.Equal(t, "senior-product-manager", Slug("Senior  Product Manager", "-"))
	assert.Equal(t, "new-delhi", Slug("New Delhi", "-"))
}

func TestLooksLikeJobLink(t *testing.T) {
	assert.True(t, LooksLikeJobLink("/job/product-manager-123"))
	assert.True(t, LooksLikeJobLink("https://in.indeed.com/viewjob?jk=abc"))
	assert.False(t, LooksLikeJobLink("/about-us"))
	assert.False(t, LooksLikeJobLink("mailto:jobs@acme.test"))
}

func TestLocationLabels(t *testing.T) {
	assert.Equal(t, "Pune", ExtractLocationFromLabeledText("Acme Corp | Location: Pune | 3-5 yrs"))
	assert.Equal(t, "", ExtractLocationFromLabeledText("nothing here"))
	assert.True(t, LooksLikeJunkTitle("Apply now"))
	assert.False(t, LooksLikeJunkTitle("Product Manager"))
}

func TestHostLimiter(t *testing.T) {
	assert.Nil(t, NewHostLimiter(0, 1))
	var nilLimiter *HostLimiter
	require.NoError(t, nilLimiter.WaitURL(context.Background(), "https://a.test"))

	hl := NewHostLimiter(1000, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 3; i++ {
		require.NoError(t, hl.WaitURL(ctx, "https://a.test/x"))
	}
}

func TestSiteKey(t *testing.T) {
	assert.Equal(t, "naukri.com", SiteKey("https://www.naukri.com/jobs"))
	assert.Equal(t, "naukri.com", SiteKey("https://m.naukri.com/x"))
	assert.Equal(t, "indeed.com", SiteKey("https://in.indeed.com/jobs?q=pm"))
	assert.Equal(t, "foundit.in", SiteKey("https://www.foundit.in/srp"))
	assert.Equal(t, "127.0.0.1", SiteKey("http://127.0.0.1:8080/page"))
	assert.Equal(t, "_", SiteKey("::not a url"))
}

func TestHostLimiterSharesSiteFloor(t *testing.T) {
	hl := NewHostLimiter(0.001, 1)
	require.NoError(t, hl.WaitURL(context.Background(), "https://www.naukri.com/a"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, hl.WaitURL(ctx, "https://m.naukri.com/b"))
	assert.NoError(t, hl.WaitURL(ctx, "https://www.shine.com/c"))
}
