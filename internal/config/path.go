package config

const (
	//? These paths must match the paths in the embed directive

	TemplatesLocalDir = "templates"

	TemplatePost     = "post.html"
	TemplateNotFound = "notfound.html"
)
