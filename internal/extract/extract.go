package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	t "dirsight/internal/types"
)

// DefaultMaxChars caps the excerpt handed to the summarizer.
const DefaultMaxChars = 6000

const (
	sniffBytes      = 8 << 10
	truncatedMarker = "\n... (truncated)"
)

type ExcerptKind string

const (
	KindContent    ExcerptKind = "content"
	KindDescriptor ExcerptKind = "descriptor"
	KindError      ExcerptKind = "error"
)

// Excerpt is the text representation of one file.
type Excerpt struct {
	Text string
	Kind ExcerptKind
}

// Failed reports whether the excerpt carries an extraction error.
func (e Excerpt) Failed() bool { return e.Kind == KindError }

// Extractor converts a file node into bounded text. Implementations never
// fail: problems are reported as bracketed text with KindError.
type Extractor interface {
	Extract(ctx context.Context, n *t.Node) Excerpt
}

// ParseFunc turns a document file into plain text.
type ParseFunc func(ctx context.Context, f *os.File) (string, error)

// FileExtractor reads text-like files directly and describes everything else.
type FileExtractor struct {
	MaxChars int
	// Parsers maps a lowercased extension (".pdf") to a document parser.
	Parsers map[string]ParseFunc
}

func New(maxChars int) *FileExtractor {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &FileExtractor{MaxChars: maxChars, Parsers: map[string]ParseFunc{}}
}

// Register installs a parser for ext, replacing any previous one.
func (x *FileExtractor) Register(ext string, fn ParseFunc) {
	if x.Parsers == nil {
		x.Parsers = map[string]ParseFunc{}
	}
	x.Parsers[strings.ToLower(ext)] = fn
}

func (x *FileExtractor) Extract(ctx context.Context, n *t.Node) (out Excerpt) {
	defer func() {
		if r := recover(); r != nil {
			out = Excerpt{Text: fmt.Sprintf("[unreadable file: %v]", r), Kind: KindError}
		}
	}()
	if n == nil || n.AbsPath == "" {
		return Excerpt{Text: "[unreadable file: no path]", Kind: KindError}
	}
	if err := ctx.Err(); err != nil {
		return Excerpt{Text: fmt.Sprintf("[unreadable file: %v]", err), Kind: KindError}
	}

	fi, err := os.Stat(n.AbsPath)
	if err != nil {
		return Excerpt{Text: fmt.Sprintf("[unreadable file: %v]", err), Kind: KindError}
	}
	if !fi.Mode().IsRegular() {
		return Excerpt{Text: "[unreadable file: not a regular file]", Kind: KindError}
	}
	ext := extOf(n.Name)
	size := n.Size
	if size == 0 {
		size = fi.Size()
	}
	if kind := DescriptorKind(ext); kind != "" {
		return describe(kind, size, ext)
	}
	if IsDocument(ext) {
		fn := x.Parsers[ext]
		if fn == nil {
			return describe("document", size, ext)
		}
		return x.parse(ctx, n, fn)
	}
	return x.readText(n, size, ext)
}

func (x *FileExtractor) maxChars() int {
	if x == nil || x.MaxChars <= 0 {
		return DefaultMaxChars
	}
	return x.MaxChars
}

func (x *FileExtractor) parse(ctx context.Context, n *t.Node, fn ParseFunc) Excerpt {
	f, err := os.Open(n.AbsPath)
	if err != nil {
		return Excerpt{Text: fmt.Sprintf("[unreadable file: %v]", err), Kind: KindError}
	}
	defer f.Close()
	txt, err := fn(ctx, f)
	if err != nil {
		return Excerpt{Text: fmt.Sprintf("[unparseable document: %v]", err), Kind: KindError}
	}
	txt, _ = Truncate(strings.ToValidUTF8(txt, "�"), x.maxChars())
	return Excerpt{Text: txt, Kind: KindContent}
}

func (x *FileExtractor) readText(n *t.Node, size int64, ext string) Excerpt {
	f, err := os.Open(n.AbsPath)
	if err != nil {
		return Excerpt{Text: fmt.Sprintf("[unreadable file: %v]", err), Kind: KindError}
	}
	defer f.Close()

	limit := int64(x.maxChars())*utf8.UTFMax + 1
	buf, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return Excerpt{Text: fmt.Sprintf("[unreadable file: %v]", err), Kind: KindError}
	}
	head := buf
	if len(head) > sniffBytes {
		head = head[:sniffBytes]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return describe("binary", size, ext)
	}
	txt := strings.ToValidUTF8(string(buf), "�")
	if strings.TrimSpace(txt) == "" {
		return Excerpt{Text: "[empty file]", Kind: KindDescriptor}
	}
	out, cut := Truncate(txt, x.maxChars())
	if !cut && int64(len(buf)) < size {
		out += truncatedMarker
	}
	return Excerpt{Text: out, Kind: KindContent}
}

// Truncate caps s at max runes, appending a marker when it cuts.
func Truncate(s string, max int) (string, bool) {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == max {
			return s[:pos] + truncatedMarker, true
		}
		i++
	}
	return s, false
}

func describe(kind string, size int64, ext string) Excerpt {
	if size < 0 {
		size = 0
	}
	format := ext
	if format == "" {
		format = "unknown"
	}
	return Excerpt{
		Text: fmt.Sprintf("[%s file: %s, format %s]", kind, humanize.Bytes(uint64(size)), format),
		Kind: KindDescriptor,
	}
}
