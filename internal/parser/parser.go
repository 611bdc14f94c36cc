// Package parser reads and writes recipe files: Markdown with a YAML
// frontmatter block holding the recipe metadata and ingredients, and a body
// holding the instructions.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/modfin/henry/slicez"
	"gopkg.in/yaml.v3"

	"github.com/starford/larder/internal/models"
)

const delim = "---"

// ErrNoName is returned when neither the frontmatter nor a heading names the recipe.
var ErrNoName = errors.New("parser: recipe has no name")

// frontmatter is the YAML header of a recipe file.
type frontmatter struct {
	Name        string                 `yaml:"name"`
	Category    string                 `yaml:"category,omitempty"`
	CookingTime *int                   `yaml:"cooking_time,omitempty"`
	Difficulty  string                 `yaml:"difficulty,omitempty"`
	Ingredients []models.NewIngredient `yaml:"ingredients,omitempty"`
}

// Parse decodes a recipe file. Without frontmatter the first "# " heading
// names the recipe and the remaining text is the instructions.
func Parse(data []byte) (*models.NewRecipe, error) {
	yamlBlock, body, ok := splitFrontmatter(data)

	var fm frontmatter
	if ok {
		if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
			return nil, fmt.Errorf("parser: frontmatter: %w", err)
		}
	}

	name := strings.TrimSpace(fm.Name)
	if name == "" {
		name, body = takeHeading(body)
	}
	if name == "" {
		return nil, ErrNoName
	}

	return &models.NewRecipe{
		Name:         name,
		Category:     fm.Category,
		CookingTime:  fm.CookingTime,
		Difficulty:   fm.Difficulty,
		Instructions: strings.TrimSpace(body),
		Ingredients:  fm.Ingredients,
	}, nil
}

// Render encodes a stored recipe as a recipe file that Parse reads back.
func Render(d *models.RecipeDetail) ([]byte, error) {
	fm := frontmatter{
		Name:        d.Name,
		Category:    d.Category,
		CookingTime: d.CookingTime,
		Difficulty:  d.Difficulty,
		Ingredients: slicez.Map(d.Ingredients, func(i models.Ingredient) models.NewIngredient {
			return models.NewIngredient{Name: i.Name, Quantity: i.Quantity, Unit: i.Unit}
		}),
	}

	var buf bytes.Buffer
	buf.WriteString(delim + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("parser: encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("parser: encode frontmatter: %w", err)
	}
	buf.WriteString(delim + "\n")
	if d.Instructions != "" {
		buf.WriteString(d.Instructions)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// splitFrontmatter separates the YAML block between leading --- delimiters
// from the body. ok is false when the data has no complete frontmatter.
func splitFrontmatter(data []byte) (yamlBlock []byte, body string, ok bool) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), false
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data), false
	}

	afterDelim := rest[idx+1+len(delim):]
	return rest[:idx], strings.TrimLeft(string(afterDelim), "\n\r"), true
}

// takeHeading returns the first H1 heading and the body without that line.
func takeHeading(body string) (string, string) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			rest := append(lines[:i:i], lines[i+1:]...)
			return strings.TrimSpace(trimmed[2:]), strings.Join(rest, "\n")
		}
	}
	return "", body
}
