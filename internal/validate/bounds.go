package validate

// Bound is an inclusive absolute range for a metric value.
type Bound struct {
	Min float64
	Max float64
}

// criticalBounds are hard physiological limits. A value outside them is
// almost certainly an extraction artifact and raises a high-severity
// error. Cell counts (wbc_count, platelet_count) are in thousands per
// µL, matching the reference ranges used for status flagging.
var criticalBounds = map[string]Bound{
	"hemoglobin":        {3, 25},
	"hematocrit":        {10, 70},
	"total_cholesterol": {50, 600},
	"hdl":               {5, 150},
	"ldl":               {10, 400},
	"triglycerides":     {20, 3000},
	"fasting_glucose":   {20, 800},
	"random_glucose":    {20, 1000},
	"hba1c":             {2, 20},
	"tsh":               {0.001, 150},
	"creatinine":        {0.1, 25},
	"urea":              {5, 400},
	"sodium":            {100, 180},
	"potassium":         {1.5, 9},
	"calcium":           {4, 18},
	"vitamin_d":         {1, 200},
	"vitamin_b12":       {30, 5000},
	"platelet_count":    {10, 2000},
	"wbc_count":         {0.5, 200},
	"alt":               {1, 5000},
	"ast":               {1, 5000},
	"total_bilirubin":   {0.05, 50},
	"heart_rate":        {20, 300},
	"body_temperature":  {80, 115},
	"spo2":              {40, 100},
}

// unusualBounds are narrower than critical bounds; values outside them
// are possible but rare and raise a medium warning.
var unusualBounds = map[string]Bound{
	"hemoglobin":        {5, 20},
	"total_cholesterol": {80, 400},
	"hdl":               {15, 120},
	"ldl":               {20, 300},
	"triglycerides":     {30, 1000},
	"fasting_glucose":   {40, 400},
	"hba1c":             {3.5, 15},
	"tsh":               {0.01, 50},
	"creatinine":        {0.3, 10},
	"sodium":            {115, 160},
	"potassium":         {2.5, 7},
	"vitamin_d":         {4, 150},
	"platelet_count":    {50, 1000},
	"wbc_count":         {2, 50},
	"heart_rate":        {35, 220},
	"spo2":              {70, 100},
}

// plausibleBounds are human-plausibility limits distinct from critical
// bounds, looser on the high side for acute presentations. Violations
// raise a high-severity warning rather than an error.
var plausibleBounds = map[string]Bound{
	"hemoglobin":      {2, 30},
	"fasting_glucose": {10, 1500},
	"tsh":             {0.0001, 500},
	"creatinine":      {0.05, 40},
	"alt":             {0, 10000},
	"ast":             {0, 10000},
	"wbc_count":       {0.1, 500},
	"body_temperature": {75, 120},
}

// validUnits lists units historically seen per metric type. A unit off
// this list raises a medium warning only.
var validUnits = map[string][]string{
	"hemoglobin":        {"g/dL", "g/L", "gm/dL", "gm%"},
	"hematocrit":        {"%"},
	"total_cholesterol": {"mg/dL", "mmol/L"},
	"hdl":               {"mg/dL", "mmol/L"},
	"ldl":               {"mg/dL", "mmol/L"},
	"vldl":              {"mg/dL"},
	"triglycerides":     {"mg/dL", "mmol/L"},
	"fasting_glucose":   {"mg/dL", "mmol/L"},
	"random_glucose":    {"mg/dL", "mmol/L"},
	"postprandial_glucose": {"mg/dL", "mmol/L"},
	"hba1c":             {"%", "mmol/mol"},
	"tsh":               {"mIU/L", "µIU/mL", "uIU/mL"},
	"t3":                {"ng/dL", "nmol/L"},
	"t4":                {"µg/dL", "nmol/L", "ug/dL"},
	"creatinine":        {"mg/dL", "µmol/L", "umol/L"},
	"urea":              {"mg/dL", "mmol/L"},
	"bun":               {"mg/dL"},
	"uric_acid":         {"mg/dL"},
	"sodium":            {"mEq/L", "mmol/L"},
	"potassium":         {"mEq/L", "mmol/L"},
	"chloride":          {"mEq/L", "mmol/L"},
	"calcium":           {"mg/dL", "mmol/L"},
	"vitamin_d":         {"ng/mL", "nmol/L"},
	"vitamin_b12":       {"pg/mL", "pmol/L"},
	"platelet_count":    {"x10^3/µL", "x10³/µL", "10^3/µL", "thou/µL", "K/µL"},
	"wbc_count":         {"x10^3/µL", "x10³/µL", "10^3/µL", "thou/µL", "K/µL"},
	"alt":               {"U/L", "IU/L"},
	"ast":               {"U/L", "IU/L"},
	"alp":               {"U/L", "IU/L"},
	"ggt":               {"U/L", "IU/L"},
	"total_bilirubin":   {"mg/dL", "µmol/L"},
	"blood_pressure":    {"mmHg"},
	"heart_rate":        {"bpm", "/min"},
	"body_temperature":  {"°F", "°C", "F", "C"},
	"spo2":              {"%"},
	"esr":               {"mm/hr"},
	"crp":               {"mg/L", "mg/dL"},
	"ferritin":          {"ng/mL", "µg/L"},
}
