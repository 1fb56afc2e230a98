package catalog

// LanguageOptions lists the target languages a learner can pick for their
// profile, in display order.
var LanguageOptions = []Language{
	{Code: "es", Label: "🇪🇸 Spanish"},
	{Code: "fr", Label: "🇫🇷 French"},
	{Code: "de", Label: "🇩🇪 German"},
	{Code: "nl", Label: "🇳🇱 Dutch"},
	{Code: "en", Label: "🇬🇧 English"},
}

type Language struct {
	Code  string
	Label string
}

var languageByCode = buildLanguageByCode()

func buildLanguageByCode() map[string]Language {
	out := make(map[string]Language, len(LanguageOptions))
	for _, option := range LanguageOptions {
		out[option.Code] = option
	}
	return out
}

// LabelForLanguage decorates a known language code. Profiles store free text,
// so anything else comes back unchanged.
func LabelForLanguage(value string) string {
	option, ok := languageByCode[value]
	if !ok {
		return value
	}
	return option.Label
}
