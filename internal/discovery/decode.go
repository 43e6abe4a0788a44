package discovery

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultEncoding — кодовая страница для вывода, который не является UTF-8.
// Консоль Windows-агентов CI часто выводит в CP1251.
const DefaultEncoding = "windows-1251"

var knownCharmaps = map[string]*charmap.Charmap{
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
	"ibm866":       charmap.CodePage866,
	"cp866":        charmap.CodePage866,
	"koi8-r":       charmap.KOI8R,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
}

// Decoder переводит вывод коллектора в UTF-8.
// Валидный UTF-8 возвращается без изменений.
type Decoder struct {
	name string
	enc  encoding.Encoding
}

// NewDecoder создаёт декодер для кодовой страницы name.
// Пустое имя и "utf-8" отключают перекодирование: недопустимые байты
// заменяются на U+FFFD.
func NewDecoder(name string) (*Decoder, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", "utf-8", "utf8":
		return &Decoder{name: "utf-8"}, nil
	}
	if cm, ok := knownCharmaps[key]; ok {
		return &Decoder{name: key, enc: cm}, nil
	}
	enc, err := htmlindex.Get(key)
	if err != nil {
		return nil, fmt.Errorf("неизвестная кодировка %q: %w", name, err)
	}
	return &Decoder{name: key, enc: enc}, nil
}

// Name возвращает имя кодовой страницы.
func (d *Decoder) Name() string {
	return d.name
}

// Decode конвертирует b в UTF-8.
func (d *Decoder) Decode(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	if d == nil || d.enc == nil {
		return strings.ToValidUTF8(string(b), "\uFFFD"), nil
	}

	reader := transform.NewReader(bytes.NewReader(b), d.enc.NewDecoder())
	result, err := io.ReadAll(reader)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD"), fmt.Errorf("перекодирование из %s: %w", d.name, err)
	}
	return string(result), nil
}
