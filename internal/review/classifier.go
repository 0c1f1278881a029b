// Package review classifies Portuguese review comments into issue
// categories by keyword matching.
package review

import (
	"strings"

	"github.com/sells-group/seller-insights/internal/model"
)

// Issue category names shown to the user.
const (
	IssueDeliveryDelay = "배송 지연"
	IssueQuality       = "상품 품질"
	IssuePackaging     = "포장 문제"
	IssueMismatch      = "기대 불일치"
)

// issueCategories is declaration order. It drives classification order and
// breaks primary-issue ties toward the first-declared category.
var issueCategories = []struct {
	name     string
	keywords []string
}{
	{IssueDeliveryDelay, []string{
		"entrega", "atraso", "atrasou", "demora", "demorou", "demoro",
		"prazo", "dias", "semana", "semanas", "chegou tarde", "não chegou",
		"nao chegou", "frete", "correios", "transportadora", "encomenda",
		"rastreio", "rastreamento", "extraviado", "perdido",
	}},
	{IssueQuality, []string{
		"qualidade", "defeito", "defeituoso", "quebrado", "quebrou",
		"danificado", "estragado", "ruim", "péssimo", "pessimo",
		"horrível", "horrivel", "lixo", "porcaria", "não funciona",
		"nao funciona", "parou", "problema", "falha",
	}},
	{IssuePackaging, []string{
		"embalagem", "amassado", "amassada", "caixa", "proteção",
		"protecao", "aberta", "aberto", "rasgado", "rasgada",
		"mal embalado", "sem proteção", "sem protecao",
	}},
	{IssueMismatch, []string{
		"foto", "imagem", "descrição", "descricao", "tamanho",
		"cor", "diferente", "parece", "esperava", "não corresponde",
		"nao corresponde", "enganoso", "propaganda", "falso", "falsa",
		"menor", "maior", "errado", "errada",
	}},
}

var positiveKeywords = []string{
	"excelente", "ótimo", "otimo", "perfeito", "maravilhoso",
	"recomendo", "amei", "adorei", "rápido", "rapido",
	"antes do prazo", "chegou antes", "boa qualidade",
	"muito bom", "satisfeito", "satisfeita", "nota 10",
}

// Classify returns the issue categories a comment matches, in declaration
// order. A category matches on its first keyword hit.
func Classify(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var categories []string
	for _, cat := range issueCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				categories = append(categories, cat.name)
				break
			}
		}
	}
	return categories
}

// IsPositive reports whether a comment contains a positive keyword.
func IsPositive(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range positiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ScoredComment is one review comment with its score.
type ScoredComment struct {
	Score   int
	Comment string
}

const (
	maxExamples    = 2
	snippetRunes   = 100
	negScoreCutoff = 2
)

// Analyze aggregates the issue distribution over a seller's reviews.
// Reviews without comment text count toward TotalCount only.
func Analyze(reviews []ScoredComment) model.ReviewAnalysis {
	out := model.ReviewAnalysis{
		IssueCounts:    map[string]int{},
		IssuePct:       map[string]float64{},
		NegativeIssues: map[string]int{},
		Examples:       map[string][]string{},
		TotalCount:     len(reviews),
	}

	for _, r := range reviews {
		if r.Comment == "" {
			continue
		}
		out.AnalyzedCount++

		categories := Classify(r.Comment)
		for _, cat := range categories {
			out.IssueCounts[cat]++
			if len(out.Examples[cat]) < maxExamples {
				out.Examples[cat] = append(out.Examples[cat], snippet(r.Comment))
			}
			if r.Score <= negScoreCutoff {
				out.NegativeIssues[cat]++
			}
		}

		if IsPositive(r.Comment) {
			out.PositiveCount++
		}
	}

	if out.AnalyzedCount > 0 {
		for cat, count := range out.IssueCounts {
			out.IssuePct[cat] = float64(count) / float64(out.AnalyzedCount)
		}
	}

	best := 0
	for _, cat := range issueCategories {
		if n := out.IssueCounts[cat.name]; n > best {
			best = n
			out.PrimaryIssue = cat.name
		}
	}

	return out
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetRunes {
		return text
	}
	return string(runes[:snippetRunes]) + "..."
}
