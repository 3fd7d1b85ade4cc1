package taxonomy

// Variable names used throughout the engine.
const (
	VarAge        = "age"
	VarGender     = "gender"
	VarIncome     = "income"
	VarEducation  = "education"
	VarProfession = "profession"
	VarRace       = "race"
)

// ageCategories is the fine-grained ACS age bucketing (B01001).
func ageCategories() []Category {
	return []Category{
		rangeCat("Under 5 years", 0, 4),
		rangeCat("5 to 9 years", 5, 9),
		rangeCat("10 to 14 years", 10, 14),
		rangeCat("15 to 17 years", 15, 17),
		rangeCat("18 and 19 years", 18, 19),
		rangeCat("20 to 24 years", 20, 24),
		rangeCat("25 to 29 years", 25, 29),
		rangeCat("30 to 34 years", 30, 34),
		rangeCat("35 to 44 years", 35, 44),
		rangeCat("45 to 54 years", 45, 54),
		rangeCat("55 to 64 years", 55, 64),
		rangeCat("65 to 74 years", 65, 74),
		rangeCat("75 to 84 years", 75, 84),
		rangeCat("85 years and over", 85, 120),
	}
}

// incomeCategories is the household income bucketing of B19037, which doubles
// as the canonical income list so the widest bracket system resolves exactly.
func incomeCategories() []Category {
	return []Category{
		rangeCat("Less than $10,000", 0, 9999),
		rangeCat("$10,000 to $14,999", 10000, 14999),
		rangeCat("$15,000 to $19,999", 15000, 19999),
		rangeCat("$20,000 to $24,999", 20000, 24999),
		rangeCat("$25,000 to $29,999", 25000, 29999),
		rangeCat("$30,000 to $34,999", 30000, 34999),
		rangeCat("$35,000 to $39,999", 35000, 39999),
		rangeCat("$40,000 to $44,999", 40000, 44999),
		rangeCat("$45,000 to $49,999", 45000, 49999),
		rangeCat("$50,000 to $59,999", 50000, 59999),
		rangeCat("$60,000 to $74,999", 60000, 74999),
		rangeCat("$75,000 to $99,999", 75000, 99999),
		rangeCat("$100,000 to $124,999", 100000, 124999),
		rangeCat("$125,000 to $149,999", 125000, 149999),
		rangeCat("$150,000 to $199,999", 150000, 199999),
		rangeCat("$200,000 or more", 200000, 500000),
	}
}

// earningsCategories is the individual earnings bucketing shared by B20005
// and B24011. Brackets differ from the household income system above.
func earningsCategories() []Category {
	return []Category{
		rangeCat("$1 to $2,499 or loss", 0, 2499),
		rangeCat("$2,500 to $4,999", 2500, 4999),
		rangeCat("$5,000 to $7,499", 5000, 7499),
		rangeCat("$7,500 to $9,999", 7500, 9999),
		rangeCat("$10,000 to $12,499", 10000, 12499),
		rangeCat("$12,500 to $14,999", 12500, 14999),
		rangeCat("$15,000 to $17,499", 15000, 17499),
		rangeCat("$17,500 to $19,999", 17500, 19999),
		rangeCat("$20,000 to $22,499", 20000, 22499),
		rangeCat("$22,500 to $24,999", 22500, 24999),
		rangeCat("$25,000 to $29,999", 25000, 29999),
		rangeCat("$30,000 to $34,999", 30000, 34999),
		rangeCat("$35,000 to $39,999", 35000, 39999),
		rangeCat("$40,000 to $44,999", 40000, 44999),
		rangeCat("$45,000 to $49,999", 45000, 49999),
		rangeCat("$50,000 to $54,999", 50000, 54999),
		rangeCat("$55,000 to $64,999", 55000, 64999),
		rangeCat("$65,000 to $74,999", 65000, 74999),
		rangeCat("$75,000 to $99,999", 75000, 99999),
		rangeCat("$100,000 or more", 100000, 500000),
	}
}

func educationCategories() []Category {
	return []Category{
		cat("Less than 9th grade"),
		cat("9th to 12th grade, no diploma"),
		cat("High school graduate"),
		cat("Some college, no degree"),
		cat("Associate's degree"),
		cat("Bachelor's degree"),
		cat("Graduate or professional degree"),
	}
}

func professionCategories() []Category {
	return []Category{
		cat("Management, business, science, and arts occupations"),
		cat("Service occupations"),
		cat("Sales and office occupations"),
		cat("Natural resources, construction, and maintenance occupations"),
		cat("Production, transportation, and material moving occupations"),
	}
}

func raceCategories() []Category {
	return []Category{
		cat("White Alone"),
		cat("Black or African American Alone"),
		cat("American Indian and Alaska Native Alone"),
		cat("Asian Alone"),
		cat("Native Hawaiian and Other Pacific Islander Alone"),
		cat("Some Other Race Alone"),
		cat("Two or More Races"),
		cat("Hispanic or Latino"),
	}
}

// DefaultVariables returns the built-in canonical variable definitions.
func DefaultVariables() []Variable {
	return []Variable{
		{Name: VarAge, NumericRange: true, Categories: ageCategories()},
		{Name: VarGender, Categories: []Category{cat("Male"), cat("Female")}},
		{Name: VarIncome, NumericRange: true, Categories: incomeCategories()},
		{Name: VarEducation, Categories: educationCategories()},
		{Name: VarProfession, Categories: professionCategories()},
		{Name: VarRace, Categories: raceCategories()},
	}
}

// DefaultTables returns the built-in bivariate table catalog with per-table
// category overrides where a table buckets a variable differently from the
// canonical list.
func DefaultTables() []Table {
	return []Table{
		{
			ID:          "B19037",
			Source:      "Census ACS Detailed Table B19037 (Age of Householder by Household Income)",
			RowVariable: VarAge,
			ColVariable: VarIncome,
			Overrides: map[string][]Category{
				VarAge: {
					rangeCat("Under 25 years", 0, 24),
					rangeCat("25 to 44 years", 25, 44),
					rangeCat("45 to 64 years", 45, 64),
					rangeCat("65 years and over", 65, 120),
				},
			},
		},
		{
			ID:          "B01001",
			Source:      "Census ACS Detailed Table B01001 (Sex by Age)",
			RowVariable: VarAge,
			ColVariable: VarGender,
		},
		{
			ID:          "B15001",
			Source:      "Census ACS Detailed Table B15001 (Sex by Age by Educational Attainment)",
			RowVariable: VarAge,
			ColVariable: VarEducation,
			Overrides: map[string][]Category{
				VarAge: {
					rangeCat("18 to 24 years", 18, 24),
					rangeCat("25 to 34 years", 25, 34),
					rangeCat("35 to 44 years", 35, 44),
					rangeCat("45 to 64 years", 45, 64),
					rangeCat("65 years and over", 65, 120),
				},
			},
		},
		{
			ID:          "B01001A-I",
			Source:      "Census ACS Detailed Tables B01001A-I (Sex by Age by Race)",
			RowVariable: VarAge,
			ColVariable: VarRace,
		},
		{
			ID:          "B20005",
			Source:      "Census ACS Detailed Table B20005 (Sex by Work Experience by Earnings)",
			RowVariable: VarIncome,
			ColVariable: VarGender,
			Overrides: map[string][]Category{
				VarIncome: earningsCategories(),
			},
		},
		{
			ID:          "B24011",
			Source:      "Census ACS Detailed Table B24011 (Occupation by Earnings)",
			RowVariable: VarIncome,
			ColVariable: VarProfession,
			Overrides: map[string][]Category{
				VarIncome: earningsCategories(),
			},
		},
		{
			ID:          "B15002",
			Source:      "Census ACS Detailed Table B15002 (Sex by Educational Attainment, Population 25+)",
			RowVariable: VarEducation,
			ColVariable: VarGender,
			Overrides: map[string][]Category{
				VarEducation: {
					cat("Less than 9th grade"),
					cat("9th to 12th grade, no diploma"),
					cat("High school graduate (includes equivalency)"),
					cat("Some college, no degree"),
					cat("Associate's degree"),
					cat("Bachelor's degree"),
					cat("Graduate or professional degree"),
				},
			},
		},
		{
			ID:          "C15002A-I",
			Source:      "Census ACS Detailed Tables C15002A-I (Sex by Educational Attainment by Race)",
			RowVariable: VarEducation,
			ColVariable: VarRace,
			Overrides: map[string][]Category{
				VarEducation: {
					cat("Less than high school"),
					cat("High school graduate"),
					cat("Some college"),
					cat("Associate degree"),
					cat("Bachelor's degree"),
					cat("Graduate degree"),
				},
			},
		},
		{
			ID:          "C24010A-I",
			Source:      "Census ACS Detailed Tables C24010A-I (Sex by Occupation by Race)",
			RowVariable: VarProfession,
			ColVariable: VarRace,
		},
	}
}

// Default builds the registry from the built-in census taxonomy.
func Default() *Registry {
	r, err := New(DefaultVariables(), DefaultTables())
	if err != nil {
		// The built-in taxonomy is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return r
}
