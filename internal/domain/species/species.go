package species

type Species struct {
	ScientificName string `json:"scientificName,omitempty"`
	TaxoCode       string `json:"taxOCode,omitempty"`
	A3Code         string `json:"a3Code,omitempty"`
	ISSCAAP        int    `json:"issCaap,omitempty"`
	EnglishName    string `json:"englishName"`
}

// Response is one page of a species search.
type Response struct {
	Page    int       `json:"page"`
	Limit   int       `json:"limit"`
	Total   int       `json:"total"`
	Results []Species `json:"results"`
}
