package util

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/fadilmartias/resume-screener/internal/model"
)

var ErrNoText = errors.New("no text to parse")

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
)

// ExtractContact pulls name, email and phone out of resume text. Missing
// fields are left empty; only empty text is an error.
func ExtractContact(text string) (model.Contact, error) {
	if strings.TrimSpace(text) == "" {
		return model.Contact{}, ErrNoText
	}

	var c model.Contact
	c.Email = strings.ToLower(emailPattern.FindString(text))
	if phone := phonePattern.FindString(text); phone != "" {
		c.Phone = strings.TrimSpace(phone)
	}
	c.Name = guessName(text)
	return c, nil
}

// guessName takes the first short line made of letters, which is where
// resumes usually put the candidate's name.
func guessName(text string) string {
	for i, line := range strings.Split(text, "\n") {
		if i >= 10 {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || emailPattern.MatchString(line) || phonePattern.MatchString(line) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 1 || len(words) > 5 {
			continue
		}
		if isNameLike(line) {
			return strings.Join(words, " ")
		}
	}
	return ""
}

func isNameLike(s string) bool {
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == ' ' || r == '.' || r == '-' || r == '\'':
		default:
			return false
		}
	}
	return letters >= 2
}
