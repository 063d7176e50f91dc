package imageurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	cases := map[string]string{
		"":                        "",
		"   ":                     "",
		"http://x/y.png":          "http://x/y.png",
		"https://cdn.x/y.png":     "https://cdn.x/y.png",
		"//cdn.x/y.png":           "//cdn.x/y.png",
		"data:image/png;base64,A": "data:image/png;base64,A",
		"uploads/a.png":           "/uploads/a.png",
		"/uploads/a.png":          "/uploads/a.png",
		"///uploads/a.png":        "/uploads/a.png",
	}
	for in, want := range cases {
		assert.Equal(t, want, Resolve(in), "input %q", in)
	}
}

func TestResolverWithBaseURL(t *testing.T) {
	r := Resolver{BaseURL: "https://api.tienda.co/"}

	assert.Equal(t, "https://api.tienda.co/uploads/a.png", r.Resolve("uploads/a.png"))
	assert.Equal(t, "http://x/y.png", r.Resolve("http://x/y.png"))
	assert.Equal(t, "", r.Resolve(""))
}

func TestResolvePtr(t *testing.T) {
	r := Resolver{}
	assert.Nil(t, r.ResolvePtr(nil))

	empty := ""
	assert.Nil(t, r.ResolvePtr(&empty))

	rel := "uploads/b.jpg"
	got := r.ResolvePtr(&rel)
	if assert.NotNil(t, got) {
		assert.Equal(t, "/uploads/b.jpg", *got)
	}
}
