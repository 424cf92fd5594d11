package vectorstore

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-json"

	"talkrec/internal/domain"
)

const maxLineSize = 16 << 20

// Encode writes set as one "<id>\t<json object>\n" line per entry, in entry order.
func Encode(w io.Writer, set domain.VectorSet) error {
	bw := bufio.NewWriter(w)
	for i, e := range set.Entries {
		if e.ID == "" || strings.ContainsAny(e.ID, "\t\r\n") {
			return fmt.Errorf("encode entry %d: id %q is empty or contains a tab or newline", i, e.ID)
		}
		vec := e.Vector
		if vec == nil {
			vec = domain.SparseVector{}
		}
		data, err := json.Marshal(vec)
		if err != nil {
			return fmt.Errorf("encode entry %q: %w", e.ID, err)
		}
		if _, err := bw.WriteString(e.ID); err != nil {
			return err
		}
		if err := bw.WriteByte('\t'); err != nil {
			return err
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads the line format written by Encode. name identifies the source in
// errors. Any malformed line fails the whole read with a
// *domain.CorruptRecordError carrying its zero-based index, and so does input
// without any entry.
func Decode(r io.Reader, name string, scheme domain.Scheme) (domain.VectorSet, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	set := domain.VectorSet{Scheme: scheme}
	seen := make(map[string]struct{})
	line := 0
	for ; sc.Scan(); line++ {
		e, err := decodeLine(sc.Bytes())
		if err != nil {
			return domain.VectorSet{}, &domain.CorruptRecordError{Path: name, Line: line, Reason: err.Error()}
		}
		if _, dup := seen[e.ID]; dup {
			return domain.VectorSet{}, &domain.CorruptRecordError{Path: name, Line: line, Reason: fmt.Sprintf("duplicate id %q", e.ID)}
		}
		seen[e.ID] = struct{}{}
		set.Entries = append(set.Entries, e)
	}
	if err := sc.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return domain.VectorSet{}, &domain.CorruptRecordError{Path: name, Line: line, Reason: "line too long"}
		}
		return domain.VectorSet{}, fmt.Errorf("read %s: %w", name, err)
	}
	if len(set.Entries) == 0 {
		// Empty sets are never written, so an empty store is truncated.
		return domain.VectorSet{}, &domain.CorruptRecordError{Path: name, Line: 0, Reason: "store holds no entries"}
	}
	return set, nil
}

func decodeLine(raw []byte) (domain.Entry, error) {
	raw = bytes.TrimSuffix(raw, []byte("\r"))
	id, payload, ok := bytes.Cut(raw, []byte("\t"))
	if !ok {
		return domain.Entry{}, fmt.Errorf("missing tab separator")
	}
	if len(id) == 0 {
		return domain.Entry{}, fmt.Errorf("empty id")
	}
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || payload[0] != '{' {
		return domain.Entry{}, fmt.Errorf("vector is not a JSON object")
	}
	vec := domain.SparseVector{}
	if err := json.Unmarshal(payload, &vec); err != nil {
		return domain.Entry{}, fmt.Errorf("invalid vector: %v", err)
	}
	for term, w := range vec {
		if !(w > 0) || math.IsInf(w, 0) {
			return domain.Entry{}, fmt.Errorf("term %q has non-positive weight %v", term, w)
		}
	}
	return domain.Entry{ID: string(id), Vector: vec}, nil
}
