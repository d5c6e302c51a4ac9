package country

// aliases maps normalized country spellings to the names used by the
// boundary reference. Every target also maps to itself so canonical keys
// are fixed points.
var aliases = map[string]string{
	"UNITED STATES":            "UNITED STATES OF AMERICA",
	"USA":                      "UNITED STATES OF AMERICA",
	"U.S.A.":                   "UNITED STATES OF AMERICA",
	"US":                       "UNITED STATES OF AMERICA",
	"UNITED STATES OF AMERICA": "UNITED STATES OF AMERICA",

	"UK":             "UNITED KINGDOM",
	"U.K.":           "UNITED KINGDOM",
	"GREAT BRITAIN":  "UNITED KINGDOM",
	"ENGLAND":        "UNITED KINGDOM",
	"UNITED KINGDOM": "UNITED KINGDOM",

	"RUSSIA":             "RUSSIAN FEDERATION",
	"RUSSIAN FEDERATION": "RUSSIAN FEDERATION",

	"SOUTH KOREA":        "KOREA, REPUBLIC OF",
	"KOREA, SOUTH":       "KOREA, REPUBLIC OF",
	"KOREA, REPUBLIC OF": "KOREA, REPUBLIC OF",

	"NORTH KOREA":                           "KOREA, DEMOCRATIC PEOPLE'S REPUBLIC OF",
	"KOREA, NORTH":                          "KOREA, DEMOCRATIC PEOPLE'S REPUBLIC OF",
	"KOREA, DEMOCRATIC PEOPLE'S REPUBLIC OF": "KOREA, DEMOCRATIC PEOPLE'S REPUBLIC OF",

	"IRAN":                      "IRAN, ISLAMIC REPUBLIC OF",
	"IRAN, ISLAMIC REPUBLIC OF": "IRAN, ISLAMIC REPUBLIC OF",

	"SYRIA":                "SYRIAN ARAB REPUBLIC",
	"SYRIAN ARAB REPUBLIC": "SYRIAN ARAB REPUBLIC",

	"VIETNAM":  "VIET NAM",
	"VIET NAM": "VIET NAM",

	"TANZANIA":                     "TANZANIA, UNITED REPUBLIC OF",
	"TANZANIA, UNITED REPUBLIC OF": "TANZANIA, UNITED REPUBLIC OF",

	"CZECHIA":        "CZECH REPUBLIC",
	"CZECH REPUBLIC": "CZECH REPUBLIC",
}
