package content

// Section schemas. Field keys follow the CMS editor; defaults are what a
// freshly created store shows before anything is edited.

type Link struct {
	Label string `content:"label"`
	URL   string `content:"url"`
}

type Hero struct {
	Title    string `content:"title" default:"Discover the new collection"`
	Subtitle string `content:"subtitle" default:"Hand-picked products, delivered to your door."`
	CTALabel string `content:"cta_label" default:"Shop now"`
	CTALink  string `content:"cta_link"`
	Image    string `content:"image"`
}

type CTABox struct {
	Title string `content:"title"`
	Text  string `content:"text"`
	Link  string `content:"link"`
	Image string `content:"image"`
}

type CTABoxes struct {
	Boxes []CTABox `content:"cta_boxes"`
}

func (c *CTABoxes) SetDefaults() {
	if len(c.Boxes) == 0 {
		c.Boxes = []CTABox{
			{Title: "Free shipping", Text: "On orders over the free shipping threshold."},
			{Title: "Easy returns", Text: "30 days to change your mind."},
			{Title: "Secure checkout", Text: "Your details stay private."},
		}
	}
}

type Logos struct {
	Logos []string `content:"logos"`
}

type Footer struct {
	About     string `content:"about" default:"Quality products and friendly service."`
	Copyright string `content:"copyright" default:"All rights reserved."`
	Links     []Link `content:"links"`
}

func (f *Footer) SetDefaults() {
	if len(f.Links) == 0 {
		f.Links = []Link{{Label: "About us", URL: "#"}, {Label: "Contact", URL: "#"}, {Label: "Privacy", URL: "#"}}
	}
}

type Newsletter struct {
	Title       string `content:"title" default:"Join our newsletter"`
	Subtitle    string `content:"subtitle" default:"News, offers and new arrivals straight to your inbox."`
	Placeholder string `content:"placeholder" default:"Your email address"`
	Button      string `content:"button" default:"Subscribe"`
	Success     string `content:"success" default:"Thanks for subscribing!"`
}

type LoginCopy struct {
	Title    string `content:"title" default:"Welcome back"`
	Subtitle string `content:"subtitle" default:"Sign in to your account"`
}

type BlogHeader struct {
	Title    string `content:"title" default:"From the blog"`
	Subtitle string `content:"subtitle" default:"Stories, guides and inspiration."`
}
