package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	serrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/i18n"
)

// LanguagesCmd implements the 'languages' command.
type LanguagesCmd struct {
	Codes  []string `arg:"" optional:"" help:"Only show these language tags (matched on canonical form)"`
	Dir    string   `help:"Only show languages written in this direction (ltr|rtl)"`
	Format string   `short:"f" help:"Output format" enum:"yaml,table" default:"table"`
}

func (l *LanguagesCmd) Run(g *Global, _ *CLI) error {
	return l.run(g.out())
}

func (l *LanguagesCmd) run(out io.Writer) error {
	langs, err := l.selected()
	if err != nil {
		return err
	}
	if l.Format == "yaml" {
		data, err := encode(langs, "yaml")
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CODE\tNAME\tNATIVE\tDIR")
	for _, code := range langs.Codes() {
		d := langs[code]
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", code, d.Name, d.Native, d.Dir)
	}
	return tw.Flush()
}

// selected applies the code and direction filters to the supported table.
func (l *LanguagesCmd) selected() (i18n.Languages, error) {
	all := i18n.Supported()

	langs := all
	if len(l.Codes) > 0 {
		langs = make(i18n.Languages, len(l.Codes))
		for _, code := range l.Codes {
			d, ok := all.Get(code)
			if !ok {
				return nil, serrors.ValidationFailed("code", fmt.Sprintf("unsupported language %q", code))
			}
			langs[d.Code] = d
		}
	}

	if l.Dir == "" {
		return langs, nil
	}
	dir, err := i18n.ParseDirection(l.Dir)
	if err != nil {
		return nil, serrors.ValidationFailed("dir", err.Error())
	}
	for code, d := range langs {
		if d.Dir != dir {
			delete(langs, code)
		}
	}
	return langs, nil
}
