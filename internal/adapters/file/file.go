package file

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// MaxDownloadBytes caps the size of a downloaded image.
const MaxDownloadBytes = 20 << 20

// DownloadFile returns the byte content of a file on a provided URL.
func DownloadFile(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		err = fmt.Errorf("error creating request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		err = fmt.Errorf("error executing request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status code on download: %d", res.StatusCode)
		log.Error().Err(err).Send()
		return nil, err
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, MaxDownloadBytes+1))
	if err != nil {
		err = fmt.Errorf("error reading response %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	if len(buf) > MaxDownloadBytes {
		err = fmt.Errorf("download exceeds %d bytes", MaxDownloadBytes)
		log.Error().Err(err).Send()
		return nil, err
	}

	return buf, nil
}

// WriteAtomic streams write into a temp file next to path and renames it into
// place. On failure the temp file is removed and path is left untouched.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.tmp", id.String()))

	log.Debug().Str("path", path).Str("temp", tmp).Msg("creating temp file")

	f, err := os.Create(tmp)
	if err != nil {
		err = fmt.Errorf("error creating temp file %w", err)
		log.Error().Err(err).Send()
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		RemoveTempFile(tmp)
		err = fmt.Errorf("error writing temp file %w", err)
		log.Error().Err(err).Send()
		return err
	}

	if err := f.Close(); err != nil {
		RemoveTempFile(tmp)
		err = fmt.Errorf("error closing temp file %w", err)
		log.Error().Err(err).Send()
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		RemoveTempFile(tmp)
		err = fmt.Errorf("error moving temp file into place %w", err)
		log.Error().Err(err).Send()
		return err
	}

	log.Debug().Str("path", path).Msg("wrote file")

	return nil
}

// RemoveTempFile removes a specified temporary file at the given path and logs success or failure.
func RemoveTempFile(path string) {
	err := os.Remove(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("could not clean up temp file")
		return
	}
	log.Debug().Str("path", path).Msg("cleaned up temp file")
}

// HTTPDownloader adapts DownloadFile to port.Downloader.
type HTTPDownloader struct{}

func (HTTPDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	return DownloadFile(ctx, url)
}
