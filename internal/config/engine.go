package config

import "slices"

// TemplateEngine identifies a template language understood by the renderer.
type TemplateEngine string

const (
	TemplateEngineNone     TemplateEngine = ""
	TemplateEngineNunjucks TemplateEngine = "njk"
	TemplateEngineLiquid   TemplateEngine = "liquid"
	TemplateEngineHBS      TemplateEngine = "hbs"
	TemplateEngineMustache TemplateEngine = "mustache"
	TemplateEngineEJS      TemplateEngine = "ejs"
	TemplateEngineHaml     TemplateEngine = "haml"
	TemplateEnginePug      TemplateEngine = "pug"
	TemplateEngineMarkdown TemplateEngine = "md"
	TemplateEngineHTML     TemplateEngine = "html"
	TemplateEngineJS       TemplateEngine = "11ty.js"
)

var supportedTemplateEngines = []TemplateEngine{
	TemplateEngineNunjucks,
	TemplateEngineLiquid,
	TemplateEngineHBS,
	TemplateEngineMustache,
	TemplateEngineEJS,
	TemplateEngineHaml,
	TemplateEnginePug,
	TemplateEngineMarkdown,
	TemplateEngineHTML,
	TemplateEngineJS,
}

// SupportedTemplateEngines returns the identifiers accepted at build time.
func SupportedTemplateEngines() []TemplateEngine {
	return slices.Clone(supportedTemplateEngines)
}

// IsSupported reports whether the identifier names a known engine. The empty
// identifier disables preprocessing and is always accepted.
func (t TemplateEngine) IsSupported() bool {
	return t == TemplateEngineNone || slices.Contains(supportedTemplateEngines, t)
}

func (t TemplateEngine) String() string { return string(t) }

// EngineConfig is the aggregate handed to the build host once setup finishes.
type EngineConfig struct {
	Dir                    DirectoryMap   `yaml:"dir" json:"dir"`
	MarkdownTemplateEngine TemplateEngine `yaml:"markdownTemplateEngine" json:"markdownTemplateEngine"`
	HTMLTemplateEngine     TemplateEngine `yaml:"htmlTemplateEngine" json:"htmlTemplateEngine"`
}

// Default directory roles.
const (
	DefaultInputDir    = "src"
	DefaultOutputDir   = "_site"
	DefaultIncludesDir = "_includes"
	DefaultLayoutsDir  = "_layouts"
)

// DefaultEngineConfig returns the site's directory conventions with Nunjucks
// preprocessing both markdown and HTML files.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Dir: DirectoryMap{
			Input:    DefaultInputDir,
			Output:   DefaultOutputDir,
			Includes: DefaultIncludesDir,
			Layouts:  DefaultLayoutsDir,
		},
		MarkdownTemplateEngine: TemplateEngineNunjucks,
		HTMLTemplateEngine:     TemplateEngineNunjucks,
	}
}
