package mapping

// aliases maps known synonyms, abbreviations and long-forms of clinical
// parameter names to their canonical taxonomy type key. Keys are stored
// in the same normalized form the mapper produces (lowercase, qualifiers
// stripped, whitespace collapsed).
var aliases = map[string]string{
	// Lipids
	"tc":                      "total_cholesterol",
	"serum cholesterol":       "total_cholesterol",
	"high density lipoprotein": "hdl",
	"hdl-c":                   "hdl",
	"low density lipoprotein":  "ldl",
	"ldl-c":                   "ldl",
	"very low density lipoprotein": "vldl",
	"tg":  "triglycerides",
	"tgl": "triglycerides",

	// CBC
	"hb":                     "hemoglobin",
	"hgb":                    "hemoglobin",
	"haemoglobin":            "hemoglobin",
	"pcv":                    "hematocrit",
	"hct":                    "hematocrit",
	"packed cell volume":     "hematocrit",
	"red blood cell":         "rbc_count",
	"red blood cells":        "rbc_count",
	"rbc":                    "rbc_count",
	"erythrocyte":            "rbc_count",
	"white blood cell":       "wbc_count",
	"white blood cells":      "wbc_count",
	"wbc":                    "wbc_count",
	"tlc":                    "wbc_count",
	"leucocyte":              "wbc_count",
	"leukocyte":              "wbc_count",
	"total leucocyte":        "wbc_count",
	"platelets":              "platelet_count",
	"plt":                    "platelet_count",
	"thrombocyte":            "platelet_count",
	"mean corpuscular volume": "mcv",
	"erythrocyte sedimentation rate": "esr",
	"sed rate":               "esr",

	// Diabetes
	"fbs":                  "fasting_glucose",
	"fasting blood sugar":  "fasting_glucose",
	"fasting blood glucose": "fasting_glucose",
	"fpg":                  "fasting_glucose",
	"rbs":                  "random_glucose",
	"random blood sugar":   "random_glucose",
	"ppbs":                 "postprandial_glucose",
	"post prandial blood sugar": "postprandial_glucose",
	"pp blood sugar":       "postprandial_glucose",
	"glycated hemoglobin":  "hba1c",
	"glycosylated hemoglobin": "hba1c",
	"a1c":                  "hba1c",
	"hb a1c":               "hba1c",

	// Thyroid
	"thyrotropin":                 "tsh",
	"thyroid stimulating hormone": "tsh",
	"triiodothyronine":            "t3",
	"thyroxine":                   "t4",
	"ft3":                         "free_t3",
	"ft4":                         "free_t4",

	// Liver
	"sgpt":                             "alt",
	"glutamic pyruvic transaminase":    "alt",
	"alanine aminotransferase":         "alt",
	"alanine transaminase":             "alt",
	"sgot":                             "ast",
	"glutamic oxaloacetic transaminase": "ast",
	"aspartate aminotransferase":       "ast",
	"aspartate transaminase":           "ast",
	"alkaline phosphatase":             "alp",
	"alk phos":                         "alp",
	"gamma gt":                         "ggt",
	"gamma glutamyl transferase":       "ggt",
	"ggtp":                             "ggt",
	"bilirubin":                        "total_bilirubin",
	"protein":                          "total_protein",

	// Kidney
	"blood urea nitrogen": "bun",
	"blood urea":          "urea",
	"sr creatinine":       "creatinine",
	"estimated glomerular filtration rate": "egfr",
	"gfr": "egfr",

	// Vitamins
	"25 hydroxy vitamin d": "vitamin_d",
	"25-hydroxy vitamin d": "vitamin_d",
	"25(oh) vitamin d":     "vitamin_d",
	"25 oh vitamin d":      "vitamin_d",
	"vit d":                "vitamin_d",
	"cholecalciferol":      "vitamin_d",
	"cobalamin":            "vitamin_b12",
	"cyanocobalamin":       "vitamin_b12",
	"vit b12":              "vitamin_b12",
	"b12":                  "vitamin_b12",
	"folic acid":           "folate",
	"total iron binding capacity": "tibc",

	// Electrolytes
	"na":  "sodium",
	"na+": "sodium",
	"k":   "potassium",
	"k+":  "potassium",
	"cl":  "chloride",
	"ca":  "calcium",
	"mg":  "magnesium",

	// Inflammation
	"c reactive protein":  "crp",
	"c-reactive protein":  "crp",
	"hs-crp":              "crp",
	"hs crp":              "crp",

	// Vitals
	"bp":                "blood_pressure",
	"b.p.":              "blood_pressure",
	"pulse":             "heart_rate",
	"pulse rate":        "heart_rate",
	"hr":                "heart_rate",
	"temperature":       "body_temperature",
	"temp":              "body_temperature",
	"oxygen saturation": "spo2",
	"o2 saturation":     "spo2",
	"sat":               "spo2",
	"body mass index":   "bmi",
}

// Aliases returns a copy of the alias table, keyed by normalized alias
// with canonical type keys as values.
func Aliases() map[string]string {
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}
