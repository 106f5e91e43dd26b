package render

// IndexData feeds index.html
type IndexData struct {
	Name  string
	Error string
}

// CelebrationData feeds celebration.html
type CelebrationData struct {
	ID             string
	Heading        string
	CountdownVideo string
	TreeVideo      string
}
