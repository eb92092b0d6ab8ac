package triage

// Severity levels accepted by the matcher.
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// Duration buckets accepted by the matcher.
const (
	DurationWithinHour    = "within_hour"
	DurationWithinDay     = "within_day"
	DurationWithin3Days   = "within_3_days"
	DurationWithinWeek    = "within_week"
	DurationWithinMonth   = "within_month"
	DurationMoreThanMonth = "more_than_month"
	DurationRecurring     = "recurring"
)

// Question is one yes/no symptom prompt shown for a body part
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Questions lists the symptom prompts per body part.
var Questions = map[string][]Question{
	"Head": {
		{ID: "headache", Text: "Do you have a headache?"},
		{ID: "dizziness", Text: "Do you feel dizzy?"},
		{ID: "light_sensitivity", Text: "Are you sensitive to light?"},
		{ID: "blurred_vision", Text: "Is your vision blurred?"},
		{ID: "nausea_vomiting", Text: "Do you feel nauseous or have you vomited?"},
	},
	"Chest": {
		{ID: "chest_pain_tightness", Text: "Do you have chest pain or tightness?"},
		{ID: "shortness_of_breath", Text: "Are you short of breath?"},
		{ID: "palpitations", Text: "Do you feel your heart racing or skipping?"},
		{ID: "mucus", Text: "Are you coughing up mucus?"},
		{ID: "arm_jaw_pain", Text: "Does the pain spread to your arm or jaw?"},
	},
	"Stomach": {
		{ID: "abdominal_pain", Text: "Do you have abdominal pain?"},
		{ID: "nausea_vomiting", Text: "Do you feel nauseous or have you vomited?"},
		{ID: "diarrhea", Text: "Do you have diarrhea?"},
		{ID: "bloating", Text: "Do you feel bloated?"},
		{ID: "eating_normally", Text: "Are you eating normally?"},
	},
	"Urinary": {
		{ID: "burning_urination", Text: "Does it burn when you urinate?"},
		{ID: "frequent_urination", Text: "Are you urinating more often than usual?"},
		{ID: "blood_in_urine", Text: "Have you noticed blood in your urine?"},
		{ID: "cloudy_urine", Text: "Is your urine cloudy or strong smelling?"},
		{ID: "lower_back_pain", Text: "Do you have lower back pain?"},
	},
	"Musculoskeletal": {
		{ID: "joint_pain", Text: "Do you have joint or muscle pain?"},
		{ID: "swelling", Text: "Is the area swollen?"},
		{ID: "stiffness", Text: "Does the area feel stiff?"},
		{ID: "limited_mobility", Text: "Is your movement limited?"},
		{ID: "redness_warmth", Text: "Is the area red or warm to the touch?"},
	},
}

// yesTokens expands an affirmed symptom into the evidence tokens the rules
// match against. A single answer can assert several tokens.
var yesTokens = map[string][]string{
	"headache":             {"headache"},
	"dizziness":            {"dizziness"},
	"light_sensitivity":    {"light_sensitivity"},
	"blurred_vision":       {"blurred_vision"},
	"nausea_vomiting":      {"nausea", "vomiting"},
	"chest_pain_tightness": {"chest_pain", "chest_tightness"},
	"shortness_of_breath":  {"shortness_of_breath"},
	"palpitations":         {"palpitations"},
	"mucus":                {"mucus", "fever", "fatigue"},
	"arm_jaw_pain":         {"arm_jaw_pain"},
	"abdominal_pain":       {"abdominal_pain"},
	"diarrhea":             {"diarrhea"},
	"bloating":             {"bloating"},
	"burning_urination":    {"burning_urination"},
	"frequent_urination":   {"frequent_urination"},
	"blood_in_urine":       {"blood_in_urine", "side_pain", "sharp_pain"},
	"cloudy_urine":         {"cloudy_urine"},
	"lower_back_pain":      {"lower_back_pain"},
	"joint_pain":           {"joint_pain"},
	"swelling":             {"swelling"},
	"stiffness":            {"stiffness"},
	"limited_mobility":     {"limited_mobility", "motion_pain", "pain_with_movement"},
	"redness_warmth":       {"redness_warmth"},
}

// noTokens expands a denied symptom into tokens. The absence of some symptoms
// is evidence in its own right.
var noTokens = map[string][]string{
	"dizziness":         {"no_dizziness"},
	"light_sensitivity": {"no_light_sensitivity"},
	"blurred_vision":    {"no_vision_issues"},
	"eating_normally":   {"loss_of_appetite"},
}

// IsValidSeverity reports whether s is an accepted severity level.
func IsValidSeverity(s string) bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// IsValidDuration reports whether d is an accepted duration bucket.
func IsValidDuration(d string) bool {
	switch d {
	case DurationWithinHour, DurationWithinDay, DurationWithin3Days,
		DurationWithinWeek, DurationWithinMonth, DurationMoreThanMonth,
		DurationRecurring:
		return true
	}
	return false
}

// Tokenize converts raw yes/no answers into the evidence token set.
func Tokenize(symptoms map[string]bool) map[string]bool {
	tokens := make(map[string]bool)
	for id, answered := range symptoms {
		if answered {
			for _, token := range yesTokens[id] {
				tokens[token] = true
			}
		} else {
			for _, token := range noTokens[id] {
				tokens[token] = true
			}
		}
	}
	return tokens
}
