package model

// Book is a catalog entry with its keyword tags
type Book struct {
	ID                   int64
	Image                string
	Title                string
	Subtitle             string
	ISBN                 string
	Author               string
	Publisher            string
	Pubdate              string
	Genre                string
	Intro                string
	Description          string
	DescriptionPublisher string
	DescriptionIndex     string
	Category             string
	KDC                  string
	ReviewCount          int
	Keywords             []string
}

// BookSimple is the compact shape used in lists and lines
type BookSimple struct {
	ID        int64    `json:"id"`
	Image     string   `json:"image"`
	Title     string   `json:"title"`
	Subtitle  string   `json:"subtitle"`
	ISBN      string   `json:"isbn"`
	Author    string   `json:"author"`
	Publisher string   `json:"publisher"`
	Pubdate   string   `json:"pubdate"`
	Keywords  []string `json:"keywords"`
}

// BookDetail is the full shape of the detail page
type BookDetail struct {
	BookSimple
	Genre                string `json:"genre"`
	Intro                string `json:"intro"`
	Description          string `json:"desc"`
	DescriptionPublisher string `json:"desc_pub"`
	DescriptionIndex     string `json:"desc_index"`
	Category             string `json:"category"`
	KDC                  string `json:"kdc"`
	ReviewCount          int    `json:"num_review"`
}

func (b *Book) Simple() BookSimple {
	keywords := b.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return BookSimple{
		ID:        b.ID,
		Image:     b.Image,
		Title:     b.Title,
		Subtitle:  b.Subtitle,
		ISBN:      b.ISBN,
		Author:    b.Author,
		Publisher: b.Publisher,
		Pubdate:   b.Pubdate,
		Keywords:  keywords,
	}
}

func (b *Book) Detail() BookDetail {
	return BookDetail{
		BookSimple:           b.Simple(),
		Genre:                b.Genre,
		Intro:                b.Intro,
		Description:          b.Description,
		DescriptionPublisher: b.DescriptionPublisher,
		DescriptionIndex:     b.DescriptionIndex,
		Category:             b.Category,
		KDC:                  b.KDC,
		ReviewCount:          b.ReviewCount,
	}
}

func ToSimpleList(books []*Book) []BookSimple {
	out := make([]BookSimple, 0, len(books))
	for _, b := range books {
		out = append(out, b.Simple())
	}
	return out
}
