package typegen

import "github.com/teranos/contentful-typegen/contentful"

func symbol(id string, required bool, validations ...contentful.Validation) contentful.Field {
	return contentful.Field{ID: id, Name: id, Type: contentful.FieldSymbol, Required: required, Validations: validations}
}

func entryLink(id string, targets ...string) contentful.Field {
	return contentful.Field{
		ID:          id,
		Name:        id,
		Type:        contentful.FieldLink,
		LinkType:    contentful.LinkEntry,
		Validations: []contentful.Validation{contentful.LinkContentTypeValidation(targets...)},
	}
}

func entryLinks(id string, targets ...string) contentful.Field {
	item := entryLink("", targets...)
	item.Name = ""
	return contentful.Field{ID: id, Name: id, Type: contentful.FieldArray, Items: &item}
}

// basicModel is an article linking to a person and to other articles.
func basicModel() []contentful.ContentType {
	return []contentful.ContentType{
		{
			Sys:         contentful.Sys{ID: "article", Type: "ContentType"},
			Name:        "Article",
			Description: "An article model with unions and links",
			Fields: []contentful.Field{
				symbol("title", true),
				symbol("status", false, contentful.InValidation("draft", "published")),
				{ID: "heroImage", Name: "Hero Image", Type: contentful.FieldLink, LinkType: contentful.LinkAsset},
				entryLink("author", "person"),
				entryLinks("related", "article"),
			},
		},
		{
			Sys:         contentful.Sys{ID: "person", Type: "ContentType"},
			Name:        "Person",
			Description: "Author",
			Fields: []contentful.Field{
				symbol("name", true),
				symbol("role", false, contentful.InValidation("Staff", "Contributor", "Guest")),
			},
		},
	}
}

// selfRefModel is a task tree that links back to its own type.
func selfRefModel() []contentful.ContentType {
	return []contentful.ContentType{
		{
			Sys:  contentful.Sys{ID: "task", Type: "ContentType"},
			Name: "Task",
			Fields: []contentful.Field{
				symbol("title", true),
				entryLink("parent", "task"),
				entryLinks("children", "task"),
			},
		},
	}
}
