package csvexport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/shashiranjanraj/stockroom/pkg/metrics"
	"github.com/shashiranjanraj/stockroom/pkg/storage"
)

// Download writes rec as an attachment named after stem.
func Download(w http.ResponseWriter, rec Record, stem string) error {
	metrics.Exports.WithLabelValues("csv", "row").Inc()
	return Attach(w, Encode(rec), stem)
}

// Attach writes an already encoded document as an attachment.
func Attach(w http.ResponseWriter, doc, stem string) error {
	w.Header().Set("Content-Type", MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, Filename(stem)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc)); err != nil {
		return fmt.Errorf("csvexport: write: %w", err)
	}
	return nil
}

// ArchivePath is where Archive stores stem on day t.
func ArchivePath(stem string, t time.Time) string {
	return path.Join("exports", t.Format("2006-01-02"), Filename(stem))
}

// Archive stores rec on disk under exports/<date>/<stem>.csv and returns the
// public URL of the stored file. The file name is path-escaped in the URL.
func Archive(ctx context.Context, disk storage.Disk, rec Record, stem string) (string, error) {
	now := time.Now()
	p := ArchivePath(stem, now)
	if err := disk.Put(ctx, p, []byte(Encode(rec)), MimeType); err != nil {
		return "", fmt.Errorf("csvexport: archive %s: %w", p, err)
	}
	return disk.URL(path.Join(path.Dir(p), url.PathEscape(Filename(stem)))), nil
}
