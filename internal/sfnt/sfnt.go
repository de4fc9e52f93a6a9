// Package sfnt reads face names out of OpenType/TrueType font files and
// 'ttcf' collections. It walks the table directory and name table by hand so
// that a damaged font never takes the scan down with it; when the hand walk
// comes up empty it falls back to the full parser in x/image/font/sfnt.
package sfnt

import (
	"errors"
	"strings"
	"unicode/utf16"

	xsfnt "golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnknownFormat is returned when the file does not start with a
// recognized scaler type or collection signature.
var ErrUnknownFormat = errors.New("unrecognized font signature")

const (
	sigTrueType = 0x00010000
	sigOTTO     = 0x4F54544F // 'OTTO'
	sigTrue     = 0x74727565 // 'true'
	sigTyp1     = 0x74797031 // 'typ1'
	sigTTCF     = 0x74746366 // 'ttcf'
)

// Name IDs that carry a face name a subtitle can reference.
const (
	nameIDFamily        = 1
	nameIDSubfamily     = 2
	nameIDFull          = 4
	nameIDTypoFamily    = 16
	nameIDTypoSubfamily = 17
)

// IsFontFile reports whether data begins with a recognized font signature.
func IsFontFile(data []byte) bool {
	sig, ok := be32(data, 0)
	if !ok {
		return false
	}
	switch sig {
	case sigTrueType, sigOTTO, sigTrue, sigTyp1, sigTTCF:
		return true
	}
	return false
}

// ReadFaceNames extracts every face name the font at data advertises. For a
// collection every sub-face contributes its names. Malformed tables are
// skipped record by record; the result holds as many valid names as could be
// recovered. ErrUnknownFormat is the only hard failure.
func ReadFaceNames(data []byte) ([]string, error) {
	sig, ok := be32(data, 0)
	if !ok {
		return nil, ErrUnknownFormat
	}

	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
	}

	switch sig {
	case sigTrueType, sigOTTO, sigTrue, sigTyp1:
		faceNames(data, 0, add)
	case sigTTCF:
		// ttcf: version and a count-prefixed array of directory offsets.
		n, ok := be32(data, 8)
		if !ok {
			return nil, ErrUnknownFormat
		}
		for i := uint32(0); i < n; i++ {
			off, ok := be32(data, 12+int(i)*4)
			if !ok {
				break
			}
			faceNames(data, int(off), add)
		}
	default:
		return nil, ErrUnknownFormat
	}

	if len(names) == 0 {
		for _, name := range fallbackNames(data) {
			add(name)
		}
	}
	return names, nil
}

// faceNames walks one table directory at dir and feeds every qualifying name
// record to add.
func faceNames(data []byte, dir int, add func(string)) {
	numTables, ok := be16(data, dir+4)
	if !ok {
		return
	}
	for i := 0; i < int(numTables); i++ {
		rec := dir + 12 + i*16
		tag, ok := be32(data, rec)
		if !ok {
			return
		}
		if tag != 0x6E616D65 { // 'name'
			continue
		}
		off, ok1 := be32(data, rec+8)
		length, ok2 := be32(data, rec+12)
		if !ok1 || !ok2 {
			return
		}
		if int(off)+int(length) > len(data) || int(off) < 0 {
			return
		}
		nameTableFaces(data[off:off+length], add)
		return
	}
}

// nameTableFaces decodes the family-category records of one name table.
// Family and typographic family are combined with their subfamily variants
// so that styled faces ("Meiryo Bold") resolve as well as the plain family.
func nameTableFaces(table []byte, add func(string)) {
	count, ok1 := be16(table, 2)
	stringOffset, ok2 := be16(table, 4)
	if !ok1 || !ok2 {
		return
	}

	var family, subfamily, typoFamily, typoSubfamily string
	for i := 0; i < int(count); i++ {
		rec := 6 + i*12
		platformID, ok := be16(table, rec)
		if !ok {
			break
		}
		encodingID, _ := be16(table, rec+2)
		nameID, _ := be16(table, rec+6)
		length, _ := be16(table, rec+8)
		offset, _ := be16(table, rec+10)

		switch nameID {
		case nameIDFamily, nameIDSubfamily, nameIDFull, nameIDTypoFamily, nameIDTypoSubfamily:
		default:
			continue
		}

		start := int(stringOffset) + int(offset)
		end := start + int(length)
		if end > len(table) {
			continue
		}
		name, ok := decodeRecord(table[start:end], platformID, encodingID)
		if !ok {
			continue
		}

		switch nameID {
		case nameIDFull:
			add(name)
		case nameIDFamily:
			add(name)
			if family == "" {
				family = name
			}
		case nameIDSubfamily:
			if subfamily == "" {
				subfamily = name
			}
		case nameIDTypoFamily:
			add(name)
			if typoFamily == "" {
				typoFamily = name
			}
		case nameIDTypoSubfamily:
			if typoSubfamily == "" {
				typoSubfamily = name
			}
		}
	}

	if family != "" && subfamily != "" && !strings.EqualFold(subfamily, "Regular") {
		add(family + " " + subfamily)
	}
	if typoFamily != "" && typoSubfamily != "" && !strings.EqualFold(typoSubfamily, "Regular") {
		add(typoFamily + " " + typoSubfamily)
	}
}

// decodeRecord converts one name record's bytes per its platform/encoding.
// Microsoft and Unicode platforms store UTF-16BE; the Macintosh platform is
// only handled for the Roman encoding. Anything else is skipped.
func decodeRecord(raw []byte, platformID, encodingID uint16) (string, bool) {
	switch platformID {
	case 0, 3:
		if len(raw)%2 != 0 {
			raw = raw[:len(raw)-1]
		}
		u16 := make([]uint16, 0, len(raw)/2)
		for i := 0; i+1 < len(raw); i += 2 {
			u16 = append(u16, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(u16)), true
	case 1:
		if encodingID != 0 {
			return "", false
		}
		name, err := charmap.Macintosh.NewDecoder().Bytes(raw)
		if err != nil {
			return "", false
		}
		return string(name), true
	}
	return "", false
}

// fallbackNames runs the full x/image parser when the hand walk found
// nothing usable in an otherwise well-signed file.
func fallbackNames(data []byte) []string {
	var names []string
	appendFont := func(f *xsfnt.Font) {
		var buf xsfnt.Buffer
		for _, id := range []xsfnt.NameID{xsfnt.NameIDFull, xsfnt.NameIDFamily, xsfnt.NameIDTypographicFamily} {
			if name, err := f.Name(&buf, id); err == nil {
				names = append(names, name)
			}
		}
	}

	if coll, err := xsfnt.ParseCollection(data); err == nil {
		for i := 0; i < coll.NumFonts(); i++ {
			if f, err := coll.Font(i); err == nil {
				appendFont(f)
			}
		}
	}
	return names
}

func be16(b []byte, off int) (uint16, bool) {
	if off < 0 || off+2 > len(b) {
		return 0, false
	}
	return uint16(b[off])<<8 | uint16(b[off+1]), true
}

func be32(b []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(b) {
		return 0, false
	}
	return uint32(b[off])<<24 | uint32(b[off+1])<<16 | uint32(b[off+2])<<8 | uint32(b[off+3]), true
}
