package mdx

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/warcodec/mdlx/errors"
)

// Maximum number of body bytes shown per chunk by Dump.
const dumpPreview = 64

// Sizes of entities in flat chunks that have a fixed layout.
var fixedSizes = map[Tag]int{
	tagSEQS: nameSize + 6*4 + 28,
	tagGLBS: 4,
	tagTEXS: 4 + pathSize + 4 + 4,
	tagPIVT: 12,
}

// Dump writes to w a readable representation of the chunk structure decoded
// from r. The bodies of chunks are not decoded.
func (d Decoder) Dump(w io.Writer, r io.Reader) error {
	if r == nil {
		return errors.New("nil reader")
	}
	if w == nil {
		return errors.New("nil writer")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	chunks, err := splitChunks(data)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Size: %d", len(data))
	fmt.Fprint(bw, "\nChunks: {")
	for i, ch := range chunks {
		dumpChunk(bw, 1, i, ch)
	}
	fmt.Fprint(bw, "\n}\n")
	return bw.Flush()
}

func dumpChunk(w *bufio.Writer, indent, i int, ch rawChunk) {
	dumpNewline(w, indent)
	fmt.Fprintf(w, "#%d: ", i)
	dumpTag(w, ch.Tag)
	w.WriteString(" {")
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Offset: %d", ch.Offset)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Size: %d", len(ch.Body))

	switch ch.Tag {
	case tagVERS:
		c := newCursor(ch.Body)
		if v := c.i32(); c.err == nil {
			dumpNewline(w, indent+1)
			fmt.Fprintf(w, "Version: %d", v)
		}
	case tagMODL:
		c := newCursor(ch.Body)
		if name := c.str(modelNameSize); c.err == nil {
			dumpNewline(w, indent+1)
			w.WriteString("Name: ")
			w.WriteString(strconv.Quote(name))
		}
	case tagSEQS, tagGLBS, tagTEXS, tagPIVT:
		dumpNewline(w, indent+1)
		size := fixedSizes[ch.Tag]
		fmt.Fprintf(w, "Records: %d", len(ch.Body)/size)
		if len(ch.Body)%size != 0 {
			fmt.Fprintf(w, " (%d bytes left over)", len(ch.Body)%size)
		}
	case tagMTLS, tagTXAN, tagGEOS, tagGEOA, tagATCH, tagLITE, tagPREM, tagPRE2, tagRIBB, tagCAMS:
		dumpNewline(w, indent+1)
		n, err := countRecords(ch.Body)
		fmt.Fprintf(w, "Records: %d", n)
		if err != nil {
			fmt.Fprintf(w, " (%s)", err)
		}
	}

	dumpNewline(w, indent+1)
	w.WriteString("Body: ")
	b := ch.Body
	if len(b) > dumpPreview {
		b = b[:dumpPreview]
	}
	dumpBytes(w, indent+1, b)
	if len(ch.Body) > dumpPreview {
		dumpNewline(w, indent+2)
		fmt.Fprintf(w, "... %d more bytes", len(ch.Body)-dumpPreview)
	}
	dumpNewline(w, indent)
	w.WriteByte('}')
}

// countRecords counts the size-prefixed records in body.
func countRecords(body []byte) (n int, err error) {
	c := newCursor(body)
	for c.left() > 0 {
		c.record()
		if c.err != nil {
			return n, c.err
		}
		n++
	}
	return n, nil
}

func dumpNewline(w *bufio.Writer, indent int) {
	w.WriteByte('\n')
	for i := 0; i < indent; i++ {
		w.WriteByte('\t')
	}
}

func dumpTag(w *bufio.Writer, t Tag) {
	for _, c := range t {
		if unicode.IsPrint(rune(c)) {
			w.WriteByte(c)
		} else {
			w.WriteByte('.')
		}
	}
	fmt.Fprintf(w, " (% 02X)", t[:])
}

func dumpBytes(w *bufio.Writer, indent int, b []byte) {
	fmt.Fprintf(w, "(len:%d)", len(b))
	const width = 16
	for j := 0; j < len(b); j += width {
		dumpNewline(w, indent+1)
		w.WriteString("| ")
		for i := j; i < j+width; {
			if i < len(b) {
				s := strconv.FormatUint(uint64(b[i]), 16)
				if len(s) == 1 {
					w.WriteString("0")
				}
				w.WriteString(s)
			} else if len(b) < width {
				break
			} else {
				w.WriteString("  ")
			}
			i++
			if i%8 == 0 && i < j+width {
				w.WriteString("  ")
			} else {
				w.WriteString(" ")
			}
		}
		w.WriteString("|")
		n := len(b)
		if j+width < n {
			n = j + width
		}
		for i := j; i < n; i++ {
			if 32 <= b[i] && b[i] <= 126 {
				w.WriteRune(rune(b[i]))
			} else {
				w.WriteByte('.')
			}
		}
		w.WriteByte('|')
	}
}
