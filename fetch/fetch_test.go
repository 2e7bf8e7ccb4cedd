package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	a11y "github.com/richardissailing/PyAccessibility"
)

func TestFetchParsesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html lang="en"><body><img src="a.jpg"></body></html>`))
	}))
	defer srv.Close()

	client := NewClient()
	doc, err := client.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotNil(t, doc.Find("img"))
}

func TestFetchSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	client := NewClient(WithUserAgent("custom-agent/2.0"))
	_, err := client.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "custom-agent/2.0", gotUA)
}

func TestFetchNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient()
	_, err := client.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, a11y.ErrFetchFailed)

	var a11yErr *a11y.Error
	require.ErrorAs(t, err, &a11yErr)
	assert.Equal(t, a11y.KindNetwork, a11yErr.Kind)
	assert.Equal(t, 404, a11yErr.Context["status"])
}

func TestFetchRejectsNonHTTPSchemes(t *testing.T) {
	client := NewClient()

	_, err := client.Fetch(context.Background(), "ftp://example.com/page.html")
	require.Error(t, err)
	assert.ErrorIs(t, err, a11y.ErrFetchFailed)
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient()
	_, err := client.Fetch(context.Background(), url)
	require.Error(t, err)

	var a11yErr *a11y.Error
	require.ErrorAs(t, err, &a11yErr)
	assert.Equal(t, a11y.KindNetwork, a11yErr.Kind)
}

func TestFetchRespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient()
	_, err := client.Fetch(ctx, srv.URL)
	require.Error(t, err)
}

func TestFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html lang="en"><body><h1>%s</h1></body></html>`, r.URL.Path)
	}))
	defer srv.Close()

	urls := []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"}
	client := NewClient()
	docs, err := client.FetchAll(context.Background(), urls, 2)
	require.NoError(t, err)
	require.Len(t, docs, len(urls))

	for i, doc := range docs {
		h1 := doc.Find("h1")
		require.NotNil(t, h1, "doc %d", i)
		assert.Equal(t, "/"+string('a'+rune(i)), h1.Text())
	}
}

func TestFetchAllPropagatesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	client := NewClient()
	_, err := client.FetchAll(context.Background(),
		[]string{srv.URL + "/ok", srv.URL + "/missing"}, 0)
	require.Error(t, err)

	var a11yErr *a11y.Error
	require.ErrorAs(t, err, &a11yErr)
	assert.Equal(t, a11y.KindNetwork, a11yErr.Kind)
}
