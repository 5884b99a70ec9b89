package ogtags

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"github.com/eringen/ogtags/meta"
)

const (
	maxImageWidth = 1600
	mediumSize    = 300 // medium derivatives fit in mediumSize x mediumSize
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// processedImage is an imported image encoded as a full-size JPEG and a
// medium derivative.
type processedImage struct {
	Attachment Attachment
	Full       []byte
	Medium     []byte
}

// processImage decodes an image from src, limits it to maxImageWidth, and
// encodes it plus a medium derivative as JPEG.
func processImage(src io.Reader, originalName string) (processedImage, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return processedImage{}, fmt.Errorf("decode image: %w", err)
	}

	full := img
	if w, h := fit(img.Bounds().Dx(), img.Bounds().Dy(), maxImageWidth, 0); w != img.Bounds().Dx() {
		full = scale(img, w, h)
	}
	mw, mh := fit(full.Bounds().Dx(), full.Bounds().Dy(), mediumSize, mediumSize)
	medium := scale(full, mw, mh)

	fullBytes, err := encodeJPEG(full)
	if err != nil {
		return processedImage{}, err
	}
	mediumBytes, err := encodeJPEG(medium)
	if err != nil {
		return processedImage{}, err
	}

	base := slugifyFilename(originalName)
	if base == "" {
		base = "image"
	}
	return processedImage{
		Attachment: Attachment{
			File:         base + ".jpg",
			Width:        full.Bounds().Dx(),
			Height:       full.Bounds().Dy(),
			MediumFile:   fmt.Sprintf("%s-%dx%d.jpg", base, mw, mh),
			MediumWidth:  mw,
			MediumHeight: mh,
			Size:         len(fullBytes),
			UploadedAt:   time.Now().UTC().Format(time.RFC3339),
		},
		Full:   fullBytes,
		Medium: mediumBytes,
	}, nil
}

// fit scales w x h down to fit maxW x maxH, keeping the aspect ratio. A
// zero bound is unconstrained.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	nw, nh := w, h
	if maxW > 0 && nw > maxW {
		nh = nh * maxW / nw
		nw = maxW
	}
	if maxH > 0 && nh > maxH {
		nw = nw * maxH / nh
		nh = maxH
	}
	return max(nw, 1), max(nh, 1)
}

func scale(img image.Image, w, h int) image.Image {
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(filepath.Base(name), ext)
	return Slugify(base)
}

// ensureUniqueFilename appends a counter until neither the upload directory
// nor the database holds the full-size file name.
func (a *App) ensureUniqueFilename(att *Attachment) error {
	dir := filepath.Join(a.staticDir, uploadsSubdir)
	base := strings.TrimSuffix(att.File, ".jpg")
	candidate := base
	for counter := 2; ; counter++ {
		_, statErr := os.Stat(filepath.Join(dir, candidate+".jpg"))
		taken, err := a.Store.FileExists(candidate + ".jpg")
		if err != nil {
			return err
		}
		if statErr != nil && !taken {
			break
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
	att.File = candidate + ".jpg"
	att.MediumFile = fmt.Sprintf("%s-%dx%d.jpg", candidate, att.MediumWidth, att.MediumHeight)
	return nil
}

// ImportImage stores an image file as an attachment post with a medium
// derivative and returns the new post.
func (a *App) ImportImage(path, title string) (Post, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Post{}, err
	}
	if info.Size() > maxUploadSize {
		return Post{}, fmt.Errorf("ogtags: %s is too large (max 10MB)", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return Post{}, err
	}
	defer f.Close()
	return a.importImage(f, filepath.Base(path), title)
}

func (a *App) importImage(src io.Reader, name, title string) (Post, error) {
	img, err := processImage(src, name)
	if err != nil {
		return Post{}, fmt.Errorf("ogtags: import %s: %w", name, err)
	}
	if err := a.ensureUniqueFilename(&img.Attachment); err != nil {
		return Post{}, err
	}

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Post{}, fmt.Errorf("create uploads dir: %w", err)
	}
	fullPath := filepath.Join(dir, img.Attachment.File)
	mediumPath := filepath.Join(dir, img.Attachment.MediumFile)
	// removeFiles drops whatever was written when a later step fails.
	removeFiles := func() {
		os.Remove(fullPath)
		os.Remove(mediumPath)
	}
	if err := os.WriteFile(fullPath, img.Full, 0o644); err != nil {
		return Post{}, fmt.Errorf("write image: %w", err)
	}
	if err := os.WriteFile(mediumPath, img.Medium, 0o644); err != nil {
		removeFiles()
		return Post{}, fmt.Errorf("write medium image: %w", err)
	}

	if title == "" {
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	post := Post{
		Type:      meta.AttachmentType,
		Slug:      strings.TrimSuffix(img.Attachment.File, ".jpg"),
		Title:     title,
		Date:      time.Now().Format("2006-01-02"),
		Published: true,
	}
	if err := a.Store.SavePost(&post); err != nil {
		removeFiles()
		return Post{}, fmt.Errorf("ogtags: save attachment post %s: %w", post.Slug, err)
	}
	img.Attachment.PostID = post.ID
	if err := a.Store.SaveAttachment(img.Attachment); err != nil {
		removeFiles()
		if derr := a.Store.DeletePost(post.ID); derr != nil {
			return Post{}, fmt.Errorf("ogtags: save attachment %s: %w", post.Slug, errors.Join(err, derr))
		}
		return Post{}, fmt.Errorf("ogtags: save attachment %s: %w", post.Slug, err)
	}
	a.Cache.Invalidate()
	return post, nil
}

// ImageURL implements meta.Images for the "medium" and "full" sizes.
func (a *App) ImageURL(id int64, size string) (string, bool) {
	att, err := a.Store.GetAttachment(id)
	if err != nil {
		return "", false
	}
	switch size {
	case meta.ImageSize:
		return FileURL(a.Config.URL, "public", uploadsSubdir, att.MediumFile), true
	case "full":
		return FileURL(a.Config.URL, "public", uploadsSubdir, att.File), true
	}
	return "", false
}

// ArchiveImage implements meta.ArchiveImages with the attachment linked to
// a term.
func (a *App) ArchiveImage(termID int64) string {
	id, err := a.Store.TermImage(termID)
	if err != nil {
		return ""
	}
	src, _ := a.ImageURL(id, "full")
	return src
}
