package i18n

// Dictionary is the typed view of the list-bearing sections, used by templates
// that range over articles, questions or goals. Plain strings go through Bundle.T.
type Dictionary struct {
	Header struct {
		Home     string `json:"home"`
		News     string `json:"news"`
		About    string `json:"about"`
		FAQ      string `json:"faq"`
		Contact  string `json:"contact"`
		Login    string `json:"login"`
		Register string `json:"register"`
		Profile  string `json:"profile"`
	} `json:"header"`
	Hero struct {
		Title     string `json:"title"`
		Subtitle  string `json:"subtitle"`
		CTA       string `json:"cta"`
		LearnMore string `json:"learnMore"`
	} `json:"hero"`
	News struct {
		Title    string    `json:"title"`
		Subtitle string    `json:"subtitle"`
		ReadMore string    `json:"readMore"`
		Articles []Article `json:"articles"`
	} `json:"news"`
	About About `json:"about"`
	FAQ   struct {
		Title     string     `json:"title"`
		Subtitle  string     `json:"subtitle"`
		Questions []Question `json:"questions"`
	} `json:"faq"`
}

type Article struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Category    string `json:"category,omitempty"`
	Image       string `json:"image,omitempty"`
}

type Question struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type TitledText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type About struct {
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle"`
	Description string     `json:"description"`
	Mission     TitledText `json:"mission"`
	Vision      TitledText `json:"vision"`
	Values      TitledText `json:"values"`
	Goals       struct {
		Title string   `json:"title"`
		Items []string `json:"items"`
	} `json:"goals"`
	TargetAudience struct {
		Title    string   `json:"title"`
		Subtitle string   `json:"subtitle"`
		Groups   []string `json:"groups"`
	} `json:"targetAudience"`
	WhyThisSystem struct {
		Title   string   `json:"title"`
		Reasons []string `json:"reasons"`
	} `json:"whyThisSystem"`
	Team TitledText `json:"team"`
}
