package library

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tansaku/tansaku/filesystem"
	"github.com/tansaku/tansaku/log"
	"github.com/tansaku/tansaku/util"
)

// MediaExtensions are the file types picked up by Scan.
var MediaExtensions = []string{
	".mkv", ".mp4", ".avi", ".m4v", ".mov", ".wmv", ".webm", ".ts", ".flv", ".rmvb",
}

const batchSize = 200

var (
	// greedy prefix so the last year-looking token wins, titles may start with one
	yearPattern = regexp.MustCompile(`^.*[\[(.\s_-](?P<year>(19|20)\d{2})[\])\s._-]`)
	tagPattern  = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\{[^}]*\}`)
	// Release noise that usually follows the title.
	noisePattern = regexp.MustCompile(`(?i)[\s._-](2160p|1080p|720p|480p|4k|x264|x265|h\.?264|h\.?265|hevc|bluray|blu-ray|web-?dl|webrip|hdtv|dvdrip|remux|aac|ac3|dts)\b.*$`)
	spaces       = regexp.MustCompile(`[\s._]+`)
)

// Parse derives a Document from a media file path.
func Parse(path string) Document {
	stem := util.FileStem(path)

	doc := Document{
		Path:     path,
		Category: filepath.Base(filepath.Dir(path)),
	}

	doc.Year = util.ReGroups(yearPattern, " "+stem+" ")["year"]

	title := noisePattern.ReplaceAllString(stem, "")
	if doc.Year != "" {
		if i := strings.LastIndex(title, doc.Year); i > 0 {
			title = title[:i]
		}
	}
	title = tagPattern.ReplaceAllString(title, " ")
	title = strings.Trim(spaces.ReplaceAllString(title, " "), " -([{")

	if title == "" {
		title = stem
	}

	doc.Title = title
	return doc
}

// Scan walks root and indexes every media file, returning how many were indexed.
func Scan(ctx context.Context, index *Index, root string) (int, error) {
	var (
		batch []Document
		total int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := index.Add(batch...); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	err := filesystem.WalkFiles(root, MediaExtensions, func(path string, _ os.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch = append(batch, Parse(path))
		log.Debugf("library: queued %s", path)

		if len(batch) >= batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return total, err
	}

	return total, flush()
}
