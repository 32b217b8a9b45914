package core

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const maxFields = 6

var digitsOnlyRe = regexp.MustCompile(`^\d+$`)

// Parser turns one line of free text into a canonical Expense.
//
// Expected layout: Valor - Descrição - Método - Tag - Categoria [- Parcelas].
// Delimiters are runs of hyphens, a semicolon, a pipe, or a comma — except a
// comma immediately followed by a digit, so decimal values like "1,50" stay
// whole.
type Parser struct {
	taxonomy *Taxonomy
	titles   *TitleCaser
}

func NewParser(taxonomy *Taxonomy, titles *TitleCaser) *Parser {
	return &Parser{taxonomy: taxonomy, titles: titles}
}

// Parse validates and canonicalizes a raw message. The returned Expense has
// no ID or timestamp; both are assigned at persistence time.
func (p *Parser) Parse(text string) (Expense, error) {
	parts := splitFields(strings.TrimSpace(text), maxFields)
	if len(parts) < 5 {
		return Expense{}, formatErrf("Lançamento Incorreto: Utilize o formato: Valor - Descrição - Método - Tag - Categoria [- Parcelas]")
	}

	valRaw, descRaw, methodRaw, tagRaw, categoryRaw := parts[0], parts[1], parts[2], parts[3], parts[4]

	if strings.TrimSpace(descRaw) == "" {
		return Expense{}, validationErrf("A descrição não pode estar vazia.")
	}

	installments := 0
	if len(parts) > 5 {
		if tok := strings.TrimSpace(parts[5]); tok != "" {
			if !digitsOnlyRe.MatchString(tok) {
				return Expense{}, validationErrf("Parcelas deve ser um número inteiro (ex.: 3).")
			}
			n, err := strconv.Atoi(tok)
			if err != nil || n == 0 {
				return Expense{}, validationErrf("Parcelas deve ser um número inteiro maior que zero (ex.: 3).")
			}
			installments = n
		}
	}

	amount, negative, err := ParseBRL(valRaw)
	if err != nil {
		return Expense{}, err
	}

	description := p.titles.Titleize(descRaw)

	method, err := p.taxonomy.Method(methodRaw)
	if err != nil {
		return Expense{}, err
	}
	tag, err := p.taxonomy.Tag(tagRaw)
	if err != nil {
		return Expense{}, err
	}
	category, err := p.taxonomy.Category(categoryRaw)
	if err != nil {
		return Expense{}, err
	}

	// A refund cannot be split into future installments.
	if negative && installments > 1 {
		return Expense{}, validationErrf("Valores negativos (estorno) não podem ser divididos em parcelas.")
	}

	return Expense{
		Amount:       amount,
		Description:  description,
		Method:       method,
		Tag:          tag,
		Category:     category,
		Installments: installments,
	}, nil
}

// splitFields splits text on the delimiter pattern, stopping after max-1
// splits so trailing delimiters stay inside the last field. Whitespace
// hugging a delimiter belongs to the delimiter, not the fields.
func splitFields(text string, max int) []string {
	r := []rune(text)
	fields := make([]string, 0, max)

	fieldStart := 0
	i := 0
	for i < len(r) && len(fields) < max-1 {
		// A minus sign opening the line belongs to the value ("-50,00"),
		// it is not a field delimiter.
		if i == 0 && r[0] == '-' && len(r) > 1 && unicode.IsDigit(r[1]) {
			i++
			continue
		}
		end, ok := delimiterAt(r, i)
		if !ok {
			i++
			continue
		}

		left := i
		for left > fieldStart && unicode.IsSpace(r[left-1]) {
			left--
		}
		for end < len(r) && unicode.IsSpace(r[end]) {
			end++
		}

		fields = append(fields, string(r[fieldStart:left]))
		fieldStart = end
		i = end
	}

	return append(fields, string(r[fieldStart:]))
}

// delimiterAt reports whether a delimiter starts at position i and, if so,
// where it ends.
func delimiterAt(r []rune, i int) (end int, ok bool) {
	switch r[i] {
	case '-':
		end = i
		for end < len(r) && r[end] == '-' {
			end++
		}
		return end, true
	case ';', '|':
		return i + 1, true
	case ',':
		if i+1 < len(r) && unicode.IsDigit(r[i+1]) {
			return 0, false
		}
		return i + 1, true
	}
	return 0, false
}
