package archive

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sdjayna/penplot/pkg/errors"
)

const timestampLayout = "20060102-150405"

// FileStore writes entries below a root directory.
type FileStore struct {
	root string
	now  func() time.Time
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir, now: time.Now}
}

// Save writes <root>/<name>/<timestamp>.svg. Saves within the same second
// get a numeric suffix instead of overwriting each other.
func (s *FileStore) Save(ctx context.Context, e Entry) (Record, error) {
	if err := e.validate(); err != nil {
		return Record{}, err
	}
	config, err := e.configJSON()
	if err != nil {
		return Record{}, err
	}

	dir := filepath.Join(s.root, e.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
	}

	at := s.now()
	content := append([]byte(`<?xml version="1.0" encoding="UTF-8"?>`+"\n"+header(e.Name, config, at)), stripProlog(e.SVG)...)

	base := at.Format(timestampLayout)
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}
		name := base
		if i > 0 {
			name += "-" + strconv.Itoa(i)
		}
		path := filepath.Join(dir, name+".svg")
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return Record{}, errors.Wrap(errors.ErrCodeInternal, err, "create SVG file")
		}
		_, werr := f.Write(content)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			os.Remove(path)
			return Record{}, errors.Wrap(errors.ErrCodeInternal, werr, "write SVG file")
		}
		return Record{ID: name, Name: e.Name, Location: path, CreatedAt: at, Size: len(content)}, nil
	}
}

// List returns the saved files for name, newest first.
func (s *FileStore) List(ctx context.Context, name string) ([]Record, error) {
	if err := errors.ValidateOutputName(name); err != nil {
		return nil, err
	}
	dir := filepath.Join(s.root, name)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".svg") {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		id := strings.TrimSuffix(ent.Name(), ".svg")
		at, err := time.ParseInLocation(timestampLayout, id[:min(len(id), len(timestampLayout))], time.Local)
		if err != nil {
			at = info.ModTime()
		}
		records = append(records, Record{
			ID:        id,
			Name:      name,
			Location:  filepath.Join(dir, ent.Name()),
			CreatedAt: at,
			Size:      int(info.Size()),
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID > records[j].ID })
	return records, nil
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
