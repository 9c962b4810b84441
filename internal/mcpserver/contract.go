package mcpserver

// RecipeFormatContract describes the canonical Markdown recipe format
// that vault files follow and LLM consumers should expect.
const RecipeFormatContract = `# Larder Recipe Format

Every Markdown recipe stored in a larder vault follows this structure.

## Structure

` + "```" + `markdown
---
category: Soups          # OPTIONAL - single value; defaults to Uncategorized
tags:                    # OPTIONAL - list of short labels
  - quick
  - vegetarian
servings: 4              # any other keys are carried into the index as-is
---

# Recipe Title

Introductory notes in standard Markdown.

## Ingredients

- [ ] 2 eggs
- [ ] 250 g flour
- Salt to taste

## Steps

1. Beat the eggs.
` + "```" + `

## Rules

1. **Frontmatter is optional.** When present, the opening ` + "`" + `---` + "`" + ` must be the
   very first line of the file and the block ends at the next ` + "`" + `---` + "`" + ` line.
2. **The first ` + "`" + `# Heading` + "`" + ` names the recipe.** Without one, the filename stem
   (without ` + "`" + `.md` + "`" + `) is used as the title.
3. **` + "`" + `category` + "`" + ` is a single value**, ` + "`" + `tags` + "`" + ` is a list. List items may be
   indented under their key or flush-left.
4. **Ingredients** live under any heading containing the word "ingredients"
   (case-insensitive, e.g. ` + "`" + `## Ingredients` + "`" + ` or ` + "`" + `## Dry ingredients` + "`" + `); the
   section ends at the next ` + "`" + `##` + "`" + ` heading.
5. **Items** may be plain bullets or task-list checkboxes; ` + "`" + `- [ ]` + "`" + ` markers
   are stripped when the list is extracted.
6. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.
7. **Encoding** is UTF-8 with a trailing newline.

## Example

` + "```" + `markdown
---
category: Desserts
tags:
  - baking
source: Grandma
---

# Apple Pie

A Sunday classic.

## Ingredients

- [ ] 6 apples
- [ ] 1 sheet puff pastry
- Cinnamon to taste

## Steps

1. Peel and slice the apples.
2. Bake at 180 C for 40 minutes.
` + "```" + `
`
