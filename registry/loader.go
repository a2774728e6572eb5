package registry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

const (
	regFileHeader      = "Windows Registry Editor Version 5.00"
	regFileHeaderV4    = "REGEDIT4"
	commentPrefix      = ";"
	keyOpenBracket     = "["
	keyCloseBracket    = "]"
	deleteKeyPrefix    = "-"
	defaultValuePrefix = "@="
	dwordPrefix        = "dword:"
	quote              = "\""

	scannerInitialBufferSize = 64 * 1024
	scannerMaxLineSize       = 1024 * 1024
)

// LoadStats summarizes a seed file.
type LoadStats struct {
	Keys    int
	Values  int
	Skipped int
}

// LoadFile seeds the store from a .reg file on disk.
func (s *Store) LoadFile(path string) (LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadStats{}, errors.Config(fmt.Sprintf("open registry seed %s", path), err)
	}
	defer f.Close()
	return s.Load(f)
}

// Load seeds the store from .reg text.
//
// Text with a UTF-8 or UTF-16 byte order mark is decoded accordingly; anything
// else is decoded from Windows-1252. Only REG_SZ ("...") and REG_DWORD
// (dword:) values are stored. Other value kinds, key deletions, and keys under
// roots that are not emulated are skipped with a warning.
func (s *Store) Load(r io.Reader) (LoadStats, error) {
	var stats LoadStats

	scanner := bufio.NewScanner(transform.NewReader(r, unicode.BOMOverride(charmap.Windows1252.NewDecoder())))
	scanner.Buffer(make([]byte, 0, scannerInitialBufferSize), scannerMaxLineSize)

	var current *Key
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, commentPrefix) ||
			line == regFileHeader || line == regFileHeaderV4 {
			continue
		}

		if strings.HasPrefix(line, keyOpenBracket) && strings.HasSuffix(line, keyCloseBracket) {
			current = nil
			keyPath := line[1 : len(line)-1]
			if strings.HasPrefix(keyPath, deleteKeyPrefix) {
				Logger().Warn("skipping key deletion", zap.Int("line", lineNo), zap.String("key", keyPath))
				stats.Skipped++
				continue
			}
			rootName, sub, _ := strings.Cut(keyPath, `\`)
			root, ok := ParseRoot(rootName)
			if !ok {
				return stats, errors.New(errors.PhaseRegistry, errors.KindInvalidInput).
					Call("Load").
					Detail("line %d: unknown root %q", lineNo, rootName).
					Build()
			}
			if !root.Supported() {
				Logger().Warn("skipping key under unemulated root", zap.Int("line", lineNo), zap.String("key", keyPath))
				stats.Skipped++
				continue
			}
			current = s.Create(root, sub)
			stats.Keys++
			continue
		}

		if current == nil {
			continue
		}

		name, payload, ok := splitValueLine(line)
		if !ok {
			return stats, errors.New(errors.PhaseRegistry, errors.KindInvalidInput).
				Call("Load").
				Detail("line %d: malformed value %q", lineNo, line).
				Build()
		}
		v, err := parsePayload(payload)
		if err != nil {
			Logger().Warn("skipping value",
				zap.Int("line", lineNo),
				zap.String("key", current.Path()),
				zap.String("name", name),
				zap.Error(err))
			stats.Skipped++
			continue
		}
		if err := current.Set(name, v); err != nil {
			return stats, err
		}
		stats.Values++
	}

	if err := scanner.Err(); err != nil {
		return stats, errors.Wrap(errors.PhaseRegistry, errors.KindHostIO, err, "scanning .reg text")
	}

	Logger().Info("registry seeded",
		zap.Int("keys", stats.Keys),
		zap.Int("values", stats.Values),
		zap.Int("skipped", stats.Skipped))
	return stats, nil
}

// splitValueLine splits `"Name"=payload` or `@=payload`.
func splitValueLine(line string) (name, payload string, ok bool) {
	if strings.HasPrefix(line, defaultValuePrefix) {
		return "", line[len(defaultValuePrefix):], true
	}
	if !strings.HasPrefix(line, quote) {
		return "", "", false
	}
	end := findClosingQuote(line)
	if end == -1 || end+1 >= len(line) || line[end+1] != '=' {
		return "", "", false
	}
	return unescape(line[1:end]), line[end+2:], true
}

func parsePayload(payload string) (Value, error) {
	payload = strings.TrimSpace(payload)
	switch {
	case strings.HasPrefix(payload, quote):
		if len(payload) < 2 || !strings.HasSuffix(payload, quote) {
			return Value{}, fmt.Errorf("unterminated string %q", payload)
		}
		return StringValue(unescape(payload[1 : len(payload)-1])), nil
	case strings.HasPrefix(payload, dwordPrefix):
		n, err := strconv.ParseUint(payload[len(dwordPrefix):], 16, 32)
		if err != nil {
			return Value{}, fmt.Errorf("invalid dword %q: %w", payload, err)
		}
		return DWORDValue(uint32(n)), nil
	default:
		return Value{}, fmt.Errorf("unsupported value kind %q", payload)
	}
}

// findClosingQuote returns the index of the quote closing the one at 0,
// skipping quotes escaped by an odd run of backslashes.
func findClosingQuote(line string) int {
	for i := 1; i < len(line); i++ {
		if line[i] != '"' {
			continue
		}
		backslashes := 0
		for j := i - 1; j >= 0 && line[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return i
		}
	}
	return -1
}

func unescape(s string) string {
	if strings.IndexByte(s, '\\') == -1 {
		return s
	}
	return strings.NewReplacer(`\\`, `\`, `\"`, `"`).Replace(s)
}
