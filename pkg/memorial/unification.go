package memorial

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/coolbeans/memorial/pkg/classify"
	"github.com/coolbeans/memorial/pkg/describe"
	"github.com/coolbeans/memorial/pkg/locale"
	"github.com/coolbeans/memorial/pkg/report"
	"github.com/coolbeans/memorial/pkg/survey"
)

const propertyLabel = "[[B]]Imóvel:[[/B]]"

// UnificationTitle returns the document title of a parcel operation.
func UnificationTitle(mode Mode) string {
	switch mode {
	case ModeUnifyDismember:
		return "MEMORIAL DESCRITIVO DE UNIFICAÇÃO E DESMEMBRAMENTO"
	case ModeUnification:
		return "MEMORIAL DESCRITIVO DE UNIFICAÇÃO"
	case ModeDismemberment:
		return "MEMORIAL DESCRITIVO DE DESMEMBRAMENTO"
	}
	return TitleMemorial
}

func operationObject(mode Mode) string {
	switch mode {
	case ModeUnifyDismember:
		return "a unificação e desmembramento"
	case ModeUnification:
		return "a unificação"
	}
	return "o desmembramento"
}

// UnifiedParcel returns the first civil report item named as a unification.
func UnifiedParcel(files []ParsedFile) (survey.Item, bool) {
	for _, it := range civilItems(files) {
		if report.IsUnification(it.Name) {
			return it, true
		}
	}
	return survey.Item{}, false
}

// Glebes returns the parcels of the lot reports named "GLEBA <n>", ordered by
// number and then by name.
func Glebes(files []ParsedFile) []survey.Item {
	var glebes []survey.Item
	for _, f := range files {
		if f.Civil {
			continue
		}
		for _, it := range f.Items {
			if it.Number > 0 {
				it.Name = fmt.Sprintf("GLEBA %d", it.Number)
			}
			glebes = append(glebes, it)
		}
	}
	slices.SortStableFunc(glebes, func(a, b survey.Item) int {
		if c := cmp.Compare(lotKey(a), lotKey(b)); c != 0 {
			return c
		}
		return strings.Compare(classify.Normalize(a.Name), classify.Normalize(b.Name))
	})
	return glebes
}

// UnificationDocument describes a unification, a dismemberment or both. The
// unified parcel comes from the civil reports and the glebes from the lot
// reports. Missing parcels leave placeholder paragraphs.
func (e *Engine) UnificationDocument(files []ParsedFile, mode Mode) *Document {
	doc := e.newDocument(mode, UnificationTitle(mode))
	p := e.project

	ctx := p.Context()
	ctx.DevelopmentType = ""
	ctx.StripWidth = nil
	ctx.IdentLabelOnly = true
	ctx.IdentLabel = describe.DefaultIdentLabel

	registrations := locale.SplitRegistrations(p.Registrations)
	doc.add("", e.unificationOpening(mode, registrations, ctx), coordinatesParagraph(ctx, false))
	doc.add(currentSituationHeading(registrations), currentSituation(registrations, ctx.City)...)

	if mode == ModeUnification || mode == ModeUnifyDismember {
		var paragraphs []string
		if item, ok := UnifiedParcel(files); ok {
			paragraphs = parcelParagraphs(item, ctx)
		} else {
			e.logger.Warn("no unification parcel in civil reports")
			paragraphs = missingParcel()
		}
		doc.add(HeadingUnified, paragraphs...)
	}

	if mode == ModeDismemberment || mode == ModeUnifyDismember {
		var paragraphs []string
		for _, g := range Glebes(files) {
			paragraphs = append(paragraphs, parcelParagraphs(g, ctx)...)
		}
		if len(paragraphs) == 0 {
			paragraphs = missingParcel()
		}
		doc.add(HeadingDismembered, paragraphs...)
	}
	return doc
}

func (e *Engine) unificationOpening(mode Mode, registrations []string, ctx describe.Context) string {
	area, words := areaPhrase(e.project.Area)

	object := "à matrícula sob"
	if len(registrations) > 1 {
		object = "às matrículas sob"
	}
	list := locale.Placeholder
	if len(registrations) > 0 {
		list = strings.Join(registrations, ", ")
	}

	return fmt.Sprintf("O presente memorial tem por finalidade descrever %s de uma área de terras, "+
		"situadas frente %s, no bairro %s, nesta comarca e cidade de %s com área total de %sm² (%s), "+
		"objeto referente %s %s do registro geral de imóveis desta cidade.",
		operationObject(mode),
		locale.OrPlaceholder(ctx.Address), locale.OrPlaceholder(ctx.Neighborhood), locale.OrPlaceholder(ctx.City),
		area, words, object, list)
}

func currentSituationHeading(registrations []string) string {
	switch len(registrations) {
	case 0:
		return "SITUAÇÃO ATUAL DA MATRÍCULA XXXX"
	case 1:
		return "SITUAÇÃO ATUAL DA MATRÍCULA " + registrations[0]
	}
	return "SITUAÇÃO ATUAL DAS MATRÍCULAS " + strings.Join(registrations, ", ")
}

// currentSituation leaves one property stub per registration for the
// registry data a human copies in.
func currentSituation(registrations []string, city string) []string {
	if len(registrations) == 0 {
		registrations = []string{locale.Placeholder}
	}
	out := make([]string, 0, 2*len(registrations))
	for _, r := range registrations {
		out = append(out,
			fmt.Sprintf("%s Matrícula %s, Município de %s, com área total de XXXXm².", propertyLabel, r, locale.OrPlaceholder(city)),
			"[[B]]"+describe.DefaultIdentLabel+"[[/B]] XXXX",
		)
	}
	return out
}

func parcelParagraphs(item survey.Item, ctx describe.Context) []string {
	name := classify.Normalize(item.Name)
	if name == "" {
		name = locale.Placeholder
	}
	area, words := locale.Placeholder, locale.Placeholder
	if item.Area != nil {
		area, words = locale.FormatNumber(*item.Area, 2), locale.AreaToWords(*item.Area)
	}
	return []string{
		fmt.Sprintf("%s %s, com área total de %sm² (%s).", propertyLabel, name, area, words),
		describe.Item(item, ctx),
	}
}

func missingParcel() []string {
	return []string{
		propertyLabel + " XXXX, com área total de XXXXm² (XXXX).",
		"[[B]]" + describe.DefaultIdentLabel + "[[/B]] XXXX",
	}
}
