// Package i18n переводит ключи сообщений на язык клиента.
//
// Таблицы переводов встроены в бинарник (locales/*.json) и загружаются
// в universal-translator. Поддерживаются языки en и ru; для остальных
// используется язык по умолчанию.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFiles embed.FS

// Supported языки, для которых есть таблицы переводов.
var Supported = []language.Tag{language.English, language.Russian}

// Translator переводит ключ сообщения на указанный язык.
type Translator struct {
	uni      *ut.UniversalTranslator
	fallback string
	matcher  language.Matcher
}

// New загружает встроенные таблицы переводов. fallback задаёт язык по умолчанию
// для неизвестных локалей и отсутствующих ключей.
func New(fallback string) (*Translator, error) {
	const op = "i18n.New"

	fallbackLocale, ok := localeFor(fallback)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported default language %q", op, fallback)
	}

	uni := ut.New(fallbackLocale, en.New(), ru.New())
	for _, lang := range []string{"en", "ru"} {
		if err := load(uni, lang); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := uni.VerifyTranslations(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Translator{
		uni:      uni,
		fallback: fallbackLocale.Locale(),
		matcher:  language.NewMatcher(Supported),
	}, nil
}

func localeFor(lang string) (locales.Translator, bool) {
	switch strings.ToLower(lang) {
	case "en":
		return en.New(), true
	case "ru":
		return ru.New(), true
	default:
		return nil, false
	}
}

func load(uni *ut.UniversalTranslator, lang string) error {
	raw, err := localeFiles.ReadFile(path.Join("locales", lang+".json"))
	if err != nil {
		return err
	}
	var table map[string]string
	if err = json.Unmarshal(raw, &table); err != nil {
		return fmt.Errorf("locale %s: %w", lang, err)
	}
	trans, found := uni.GetTranslator(lang)
	if !found {
		return fmt.Errorf("locale %s is not registered", lang)
	}
	for key, text := range table {
		if err = trans.Add(key, text, false); err != nil {
			return fmt.Errorf("locale %s, key %s: %w", lang, key, err)
		}
	}
	return nil
}

// T возвращает перевод key для языка locale. Для неизвестного языка или
// отсутствующего ключа используется язык по умолчанию, а если перевода нет
// и там, возвращается сам ключ.
func (t *Translator) T(key, locale string) string {
	if trans, found := t.uni.GetTranslator(strings.ToLower(locale)); found {
		if msg, err := trans.T(key); err == nil {
			return msg
		}
	}
	trans, _ := t.uni.GetTranslator(t.fallback)
	if msg, err := trans.T(key); err == nil {
		return msg
	}
	return key
}

// Negotiate выбирает поддерживаемый язык по значению заголовка Accept-Language.
func (t *Translator) Negotiate(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return t.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.fallback
	}
	tag, _, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.fallback
	}
	base, _ := tag.Base()
	return base.String()
}

// Default возвращает язык по умолчанию.
func (t *Translator) Default() string {
	return t.fallback
}
