// Package mapping maps free-text clinical parameter names onto a fixed
// taxonomy of standardized metric types.
package mapping

// ValueShape tags the expected shape of a metric value.
type ValueShape string

const (
	ShapeNumeric       ValueShape = "numeric"
	ShapeBloodPressure ValueShape = "blood_pressure"
	ShapeRange         ValueShape = "range"
)

// StandardMapping is one entry of the metric taxonomy. Entries are
// statically defined, loaded once and read-only thereafter. The Type key
// is globally unique and stable; HealthMetric records reference it.
type StandardMapping struct {
	Type        string
	Category    string
	Subcategory string
	DisplayName string
	DefaultUnit string
	Shape       ValueShape
	Priority    int // tie-break rank, lower wins
}

// Categories used by the taxonomy.
const (
	CategoryHeart        = "heart"
	CategoryBlood        = "blood"
	CategoryThyroid      = "thyroid"
	CategoryLiver        = "liver"
	CategoryKidney       = "kidney"
	CategoryDiabetes     = "diabetes"
	CategoryVitamins     = "vitamins"
	CategoryElectrolytes = "electrolytes"
	CategoryInflammation = "inflammation"
	CategoryVitals       = "vitals"
	CategoryCustom       = "custom"
)

// standardMappings is the full metric taxonomy.
var standardMappings = []StandardMapping{
	// Lipid profile
	{Type: "total_cholesterol", Category: CategoryHeart, Subcategory: "lipids", DisplayName: "Total Cholesterol", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 1},
	{Type: "hdl", Category: CategoryHeart, Subcategory: "lipids", DisplayName: "HDL Cholesterol", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 1},
	{Type: "ldl", Category: CategoryHeart, Subcategory: "lipids", DisplayName: "LDL Cholesterol", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 1},
	{Type: "vldl", Category: CategoryHeart, Subcategory: "lipids", DisplayName: "VLDL Cholesterol", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 3},
	{Type: "triglycerides", Category: CategoryHeart, Subcategory: "lipids", DisplayName: "Triglycerides", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 1},
	{Type: "non_hdl_cholesterol", Category: CategoryHeart, Subcategory: "lipids", DisplayName: "Non-HDL Cholesterol", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 4},

	// Vitals
	{Type: "blood_pressure", Category: CategoryVitals, Subcategory: "cardiovascular", DisplayName: "Blood Pressure", DefaultUnit: "mmHg", Shape: ShapeBloodPressure, Priority: 1},
	{Type: "heart_rate", Category: CategoryVitals, Subcategory: "cardiovascular", DisplayName: "Heart Rate", DefaultUnit: "bpm", Shape: ShapeNumeric, Priority: 2},
	{Type: "body_temperature", Category: CategoryVitals, DisplayName: "Body Temperature", DefaultUnit: "°F", Shape: ShapeNumeric, Priority: 3},
	{Type: "spo2", Category: CategoryVitals, Subcategory: "respiratory", DisplayName: "Oxygen Saturation", DefaultUnit: "%", Shape: ShapeNumeric, Priority: 3},
	{Type: "bmi", Category: CategoryVitals, DisplayName: "Body Mass Index", DefaultUnit: "kg/m²", Shape: ShapeNumeric, Priority: 4},

	// Complete blood count
	{Type: "hemoglobin", Category: CategoryBlood, Subcategory: "cbc", DisplayName: "Hemoglobin", DefaultUnit: "g/dL", Shape: ShapeNumeric, Priority: 1},
	{Type: "hematocrit", Category: CategoryBlood, Subcategory: "cbc", DisplayName: "Hematocrit", DefaultUnit: "%", Shape: ShapeNumeric, Priority: 2},
	{Type: "rbc_count", Category: CategoryBlood, Subcategory: "cbc", DisplayName: "RBC Count", DefaultUnit: "million/µL", Shape: ShapeNumeric, Priority: 2},
	{Type: "wbc_count", Category: CategoryBlood, Subcategory: "cbc", DisplayName: "WBC Count", DefaultUnit: "x10^3/µL", Shape: ShapeNumeric, Priority: 2},
	{Type: "platelet_count", Category: CategoryBlood, Subcategory: "cbc", DisplayName: "Platelet Count", DefaultUnit: "x10^3/µL", Shape: ShapeNumeric, Priority: 2},
	{Type: "mcv", Category: CategoryBlood, Subcategory: "cbc", DisplayName: "MCV", DefaultUnit: "fL", Shape: ShapeNumeric, Priority: 4},
	{Type: "mch", Category: CategoryBlood, Subcategory: "cbc", DisplayName: "MCH", DefaultUnit: "pg", Shape: ShapeNumeric, Priority: 4},
	{Type: "mchc", Category: CategoryBlood, Subcategory: "cbc", DisplayName: "MCHC", DefaultUnit: "g/dL", Shape: ShapeNumeric, Priority: 4},
	{Type: "rdw", Category: CategoryBlood, Subcategory: "cbc", DisplayName: "RDW", DefaultUnit: "%", Shape: ShapeNumeric, Priority: 5},
	{Type: "esr", Category: CategoryBlood, Subcategory: "cbc", DisplayName: "ESR", DefaultUnit: "mm/hr", Shape: ShapeNumeric, Priority: 3},
	{Type: "neutrophils", Category: CategoryBlood, Subcategory: "differential", DisplayName: "Neutrophils", DefaultUnit: "%", Shape: ShapeNumeric, Priority: 4},
	{Type: "lymphocytes", Category: CategoryBlood, Subcategory: "differential", DisplayName: "Lymphocytes", DefaultUnit: "%", Shape: ShapeNumeric, Priority: 4},
	{Type: "eosinophils", Category: CategoryBlood, Subcategory: "differential", DisplayName: "Eosinophils", DefaultUnit: "%", Shape: ShapeNumeric, Priority: 5},
	{Type: "monocytes", Category: CategoryBlood, Subcategory: "differential", DisplayName: "Monocytes", DefaultUnit: "%", Shape: ShapeNumeric, Priority: 5},

	// Diabetes
	{Type: "fasting_glucose", Category: CategoryDiabetes, DisplayName: "Fasting Glucose", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 1},
	{Type: "random_glucose", Category: CategoryDiabetes, DisplayName: "Random Glucose", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 2},
	{Type: "postprandial_glucose", Category: CategoryDiabetes, DisplayName: "Postprandial Glucose", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 2},
	{Type: "hba1c", Category: CategoryDiabetes, DisplayName: "HbA1c", DefaultUnit: "%", Shape: ShapeNumeric, Priority: 1},
	{Type: "insulin", Category: CategoryDiabetes, DisplayName: "Fasting Insulin", DefaultUnit: "µIU/mL", Shape: ShapeNumeric, Priority: 3},

	// Thyroid panel
	{Type: "tsh", Category: CategoryThyroid, DisplayName: "TSH", DefaultUnit: "mIU/L", Shape: ShapeNumeric, Priority: 1},
	{Type: "t3", Category: CategoryThyroid, DisplayName: "Triiodothyronine (T3)", DefaultUnit: "ng/dL", Shape: ShapeNumeric, Priority: 2},
	{Type: "t4", Category: CategoryThyroid, DisplayName: "Thyroxine (T4)", DefaultUnit: "µg/dL", Shape: ShapeNumeric, Priority: 2},
	{Type: "free_t3", Category: CategoryThyroid, DisplayName: "Free T3", DefaultUnit: "pg/mL", Shape: ShapeNumeric, Priority: 3},
	{Type: "free_t4", Category: CategoryThyroid, DisplayName: "Free T4", DefaultUnit: "ng/dL", Shape: ShapeNumeric, Priority: 3},

	// Liver function
	{Type: "alt", Category: CategoryLiver, DisplayName: "ALT (SGPT)", DefaultUnit: "U/L", Shape: ShapeNumeric, Priority: 1},
	{Type: "ast", Category: CategoryLiver, DisplayName: "AST (SGOT)", DefaultUnit: "U/L", Shape: ShapeNumeric, Priority: 1},
	{Type: "alp", Category: CategoryLiver, DisplayName: "Alkaline Phosphatase", DefaultUnit: "U/L", Shape: ShapeNumeric, Priority: 2},
	{Type: "ggt", Category: CategoryLiver, DisplayName: "GGT", DefaultUnit: "U/L", Shape: ShapeNumeric, Priority: 3},
	{Type: "total_bilirubin", Category: CategoryLiver, DisplayName: "Total Bilirubin", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 2},
	{Type: "direct_bilirubin", Category: CategoryLiver, DisplayName: "Direct Bilirubin", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 3},
	{Type: "albumin", Category: CategoryLiver, DisplayName: "Albumin", DefaultUnit: "g/dL", Shape: ShapeNumeric, Priority: 3},
	{Type: "total_protein", Category: CategoryLiver, DisplayName: "Total Protein", DefaultUnit: "g/dL", Shape: ShapeNumeric, Priority: 3},

	// Kidney function
	{Type: "creatinine", Category: CategoryKidney, DisplayName: "Creatinine", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 1},
	{Type: "urea", Category: CategoryKidney, DisplayName: "Urea", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 2},
	{Type: "bun", Category: CategoryKidney, DisplayName: "Blood Urea Nitrogen", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 2},
	{Type: "uric_acid", Category: CategoryKidney, DisplayName: "Uric Acid", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 2},
	{Type: "egfr", Category: CategoryKidney, DisplayName: "eGFR", DefaultUnit: "mL/min/1.73m²", Shape: ShapeNumeric, Priority: 3},

	// Vitamins and iron studies
	{Type: "vitamin_d", Category: CategoryVitamins, DisplayName: "Vitamin D (25-OH)", DefaultUnit: "ng/mL", Shape: ShapeNumeric, Priority: 1},
	{Type: "vitamin_b12", Category: CategoryVitamins, DisplayName: "Vitamin B12", DefaultUnit: "pg/mL", Shape: ShapeNumeric, Priority: 1},
	{Type: "folate", Category: CategoryVitamins, DisplayName: "Folate", DefaultUnit: "ng/mL", Shape: ShapeNumeric, Priority: 3},
	{Type: "iron", Category: CategoryVitamins, Subcategory: "iron_studies", DisplayName: "Serum Iron", DefaultUnit: "µg/dL", Shape: ShapeNumeric, Priority: 3},
	{Type: "ferritin", Category: CategoryVitamins, Subcategory: "iron_studies", DisplayName: "Ferritin", DefaultUnit: "ng/mL", Shape: ShapeNumeric, Priority: 2},
	{Type: "tibc", Category: CategoryVitamins, Subcategory: "iron_studies", DisplayName: "TIBC", DefaultUnit: "µg/dL", Shape: ShapeNumeric, Priority: 4},

	// Electrolytes and minerals
	{Type: "sodium", Category: CategoryElectrolytes, DisplayName: "Sodium", DefaultUnit: "mEq/L", Shape: ShapeNumeric, Priority: 2},
	{Type: "potassium", Category: CategoryElectrolytes, DisplayName: "Potassium", DefaultUnit: "mEq/L", Shape: ShapeNumeric, Priority: 2},
	{Type: "chloride", Category: CategoryElectrolytes, DisplayName: "Chloride", DefaultUnit: "mEq/L", Shape: ShapeNumeric, Priority: 3},
	{Type: "calcium", Category: CategoryElectrolytes, DisplayName: "Calcium", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 2},
	{Type: "magnesium", Category: CategoryElectrolytes, DisplayName: "Magnesium", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 3},
	{Type: "phosphorus", Category: CategoryElectrolytes, DisplayName: "Phosphorus", DefaultUnit: "mg/dL", Shape: ShapeNumeric, Priority: 4},

	// Inflammation
	{Type: "crp", Category: CategoryInflammation, DisplayName: "C-Reactive Protein", DefaultUnit: "mg/L", Shape: ShapeNumeric, Priority: 2},
}

// Standards returns the full taxonomy keyed by type. The returned map is
// built once at package init and must not be mutated.
func Standards() map[string]StandardMapping {
	return standardsByType
}

// Lookup returns the standard mapping for a type key.
func Lookup(typeKey string) (StandardMapping, bool) {
	m, ok := standardsByType[typeKey]
	return m, ok
}

var standardsByType = func() map[string]StandardMapping {
	byType := make(map[string]StandardMapping, len(standardMappings))
	for _, m := range standardMappings {
		if _, dup := byType[m.Type]; dup {
			panic("duplicate standard mapping type: " + m.Type)
		}
		byType[m.Type] = m
	}
	return byType
}()
