package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"k8s.io/klog/v2"
)

const gcsScheme = "gs://"

// ReadWords reads one word per line from uri. uri is either a local path or a
// gs://bucket/object URL. Blank lines are skipped.
func ReadWords(ctx context.Context, uri string) ([]string, error) {
	if strings.HasPrefix(uri, gcsScheme) {
		return readGCS(ctx, uri)
	}

	f, err := os.Open(uri)
	if err != nil {
		return nil, fmt.Errorf("opening word list: %w", err)
	}
	defer f.Close()

	words, err := ParseWords(f)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", uri, err)
	}
	klog.FromContext(ctx).V(2).Info("read word list", "path", uri, "words", len(words))
	return words, nil
}

// ParseWords splits r into trimmed, non-empty lines.
func ParseWords(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// ParseGCSURL splits gs://bucket/object into its parts.
func ParseGCSURL(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, gcsScheme)
	if !ok {
		return "", "", fmt.Errorf("%q is not a GCS url (want gs://<bucket>/<object>)", uri)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%q is not a GCS url (want gs://<bucket>/<object>)", uri)
	}
	return bucket, object, nil
}

func readGCS(ctx context.Context, uri string) ([]string, error) {
	log := klog.FromContext(ctx)

	bucket, object, err := ParseGCSURL(uri)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS storage client: %w", err)
	}
	defer client.Close()

	log.Info("reading word list from GCS", "url", uri)

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("word list %q not found: %w", uri, err)
		}
		return nil, fmt.Errorf("opening object from GCS %q: %w", uri, err)
	}
	defer r.Close()

	words, err := ParseWords(r)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", uri, err)
	}
	log.Info("read word list from GCS", "url", uri, "words", len(words), "bytes", r.Attrs.Size)
	return words, nil
}
