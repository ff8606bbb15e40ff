// Package schema validates enriched products against a rule-string
// schema. Rules are free-form strings carrying a type tag (string,
// float, enum[...], url) and optional constraints ("max N chars",
// ">0"). Violations are collected and reported, never fatal: a record
// failing schema rules still flows through the pipeline.
package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shopstream/catalogpipe/pkg/types"
)

// Schema describes the expected shape of an enriched product. Field
// names refer to the product's JSON keys; each maps to a rule string.
type Schema struct {
	RequiredFields map[string]string `json:"required_fields"`
	OptionalFields map[string]string `json:"optional_fields"`
}

var (
	maxLenRe = regexp.MustCompile(`max (\d+) chars`)
	enumRe   = regexp.MustCompile(`enum\[(.*?)\]`)
)

// Validator checks products against a Schema.
type Validator struct {
	log *zap.Logger
}

// NewValidator creates a Validator. A nil logger disables logging.
func NewValidator(log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{log: log}
}

// ValidateProduct returns the rule violations for one product, empty if
// it conforms. Fields are checked in sorted name order so the output is
// deterministic.
func (v *Validator) ValidateProduct(p *types.Product, s Schema) []string {
	fields := productFields(p)

	var violations []string
	for _, name := range sortedKeys(s.RequiredFields) {
		value, ok := fields[name]
		if !ok {
			violations = append(violations, fmt.Sprintf("Missing required field: %s", name))
			continue
		}
		if str, isStr := value.(string); isStr && str == "" {
			violations = append(violations, fmt.Sprintf("Required field '%s' is empty", name))
			continue
		}
		violations = append(violations, checkRule(name, value, s.RequiredFields[name])...)
	}
	for _, name := range sortedKeys(s.OptionalFields) {
		value, ok := fields[name]
		if !ok || isEmpty(value) {
			continue
		}
		violations = append(violations, checkRule(name, value, s.OptionalFields[name])...)
	}

	if len(violations) > 0 {
		v.log.Warn("product failed schema validation",
			zap.String("product_id", p.ID),
			zap.Int("violations", len(violations)))
	}
	return violations
}

// ValidateBatch validates every product and returns violations keyed by
// product id, containing only products that have at least one.
func (v *Validator) ValidateBatch(products []types.Product, s Schema) map[string][]string {
	results := make(map[string][]string)
	for i := range products {
		p := &products[i]
		id := p.ID
		if id == "" {
			id = fmt.Sprintf("Product_%d", i)
		}
		if violations := v.ValidateProduct(p, s); len(violations) > 0 {
			results[id] = violations
		}
	}
	v.log.Info("schema validation finished",
		zap.Int("products", len(products)),
		zap.Int("with_violations", len(results)))
	return results
}

// Summary renders batch results as a human-readable report.
func Summary(results map[string][]string) string {
	if len(results) == 0 {
		return "All products passed validation successfully!"
	}

	total := 0
	for _, violations := range results {
		total += len(violations)
	}

	lines := []string{
		fmt.Sprintf("Validation found %d errors in %d products:", total, len(results)),
		"",
	}
	for _, id := range sortedKeys(results) {
		lines = append(lines, fmt.Sprintf("Product %s:", id))
		for _, violation := range results[id] {
			lines = append(lines, "  - "+violation)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// checkRule validates a value against a single rule string. The type
// tags are checked in a fixed order and the first matching tag wins.
func checkRule(name string, value interface{}, rule string) []string {
	ruleLower := strings.ToLower(rule)

	switch {
	case strings.Contains(ruleLower, "string"):
		str, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("Field '%s' should be string, got %T", name, value)}
		}
		if max := extractMaxLength(rule); max > 0 && len([]rune(str)) > max {
			return []string{fmt.Sprintf("Field '%s' exceeds max length of %d characters", name, max)}
		}

	case strings.Contains(ruleLower, "float"):
		num, ok := value.(float64)
		if !ok {
			return []string{fmt.Sprintf("Field '%s' should be numeric, got %T", name, value)}
		}
		if strings.Contains(rule, ">0") && num <= 0 {
			return []string{fmt.Sprintf("Field '%s' should be greater than 0", name)}
		}

	case strings.Contains(ruleLower, "enum"):
		allowed := extractEnumValues(rule)
		str, _ := value.(string)
		if len(allowed) > 0 && !contains(allowed, str) {
			return []string{fmt.Sprintf("Field '%s' has invalid value '%v'. Allowed values: %s",
				name, value, strings.Join(allowed, ", "))}
		}

	case strings.Contains(ruleLower, "url"):
		str, _ := value.(string)
		if str != "" && !isValidURL(str) {
			return []string{fmt.Sprintf("Field '%s' should be a valid URL", name)}
		}
	}

	return nil
}

func extractMaxLength(rule string) int {
	m := maxLenRe.FindStringSubmatch(rule)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func extractEnumValues(rule string) []string {
	m := enumRe.FindStringSubmatch(rule)
	if m == nil {
		return nil
	}
	parts := strings.Split(m[1], ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, strings.TrimSpace(p))
	}
	return values
}

// isValidURL accepts http://, https:// and www. prefixes. Empty values
// are allowed; presence is enforced separately for required fields.
func isValidURL(url string) bool {
	return strings.HasPrefix(url, "http://") ||
		strings.HasPrefix(url, "https://") ||
		strings.HasPrefix(url, "www.")
}

// productFields maps a product's JSON field names to their values.
func productFields(p *types.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":                       p.ID,
		"brand":                    p.Brand,
		"category":                 p.Category,
		"price":                    p.Price,
		"availability":             p.Availability,
		"image_link":               p.ImageLink,
		"title":                    p.Title,
		"description":              p.Description,
		"features":                 p.Features,
		"intents":                  p.Intents,
		"ai_optimized_title":       p.AIOptimizedTitle,
		"ai_optimized_description": p.AIOptimizedDescription,
		"ai_optimized_content":     p.AIOptimizedContent,
	}
}

// isEmpty mirrors truthiness for optional-field gating: empty strings,
// zero numbers and empty lists are skipped rather than validated.
func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case string:
		return v == ""
	case float64:
		return v == 0
	case []string:
		return len(v) == 0
	default:
		return value == nil
	}
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
