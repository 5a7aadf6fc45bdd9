package handlers

import (
	"strings"

	"github.com/qaunion/portal/i18n"
)

// NavItem is one sidebar entry. Href is relative to /{locale}/dashboard.
type NavItem struct {
	Key      string
	Label    string
	Href     string
	Icon     string
	Children []NavItem

	Active       bool
	ParentActive bool
	Open         bool
}

// HasChildren reports whether the item is a dropdown
func (n NavItem) HasChildren() bool { return len(n.Children) > 0 }

// NavGroup is a titled block of sidebar items; an empty Title draws no heading
type NavGroup struct {
	Title string
	Items []NavItem
}

type navSpec struct {
	key, href, icon string
	children        []navSpec
}

type groupSpec struct {
	title string
	items []navSpec
}

var sidebarSpec = []groupSpec{
	{"", []navSpec{
		{key: "home", href: "", icon: "home"},
	}},
	{"administration", []navSpec{
		{key: "accounts", icon: "users", children: []navSpec{
			{key: "accountsCreate", href: "/accounts/create", icon: "document"},
			{key: "accountsManage", href: "/accounts/manage", icon: "cog"},
			{key: "userTypes", href: "/user-types", icon: "users"},
		}},
	}},
	{"", []navSpec{
		{key: "unitData", href: "/unit-data", icon: "folder"},
		{key: "universities", href: "/universities", icon: "library"},
		{key: "faculties", icon: "library", children: []navSpec{
			{key: "facultiesManage", href: "/faculties", icon: "library"},
			{key: "departments", href: "/departments", icon: "folder"},
			{key: "courses", href: "/courses", icon: "document"},
		}},
		{key: "survey", href: "/survey", icon: "document"},
	}},
	{"operations", []navSpec{
		{key: "tasks", href: "/tasks", icon: "check"},
		{key: "files", href: "/files", icon: "folder"},
		{key: "complaints", href: "/complaints", icon: "bell"},
		{key: "memories", href: "/memories", icon: "calendar"},
	}},
	{"general", []navSpec{
		{key: "prints", href: "/prints", icon: "document"},
		{key: "about", href: "/about", icon: "users"},
		{key: "contact", href: "/contact", icon: "bell"},
	}},
}

// BuildSidebar resolves labels and links for l and marks the entries matching
// path. A dropdown is open when its key equals open or one of its children is
// active. Items below the universities screen count as active for it.
func BuildSidebar(l i18n.Locale, path, open string) []NavGroup {
	base := "/" + l.String() + "/dashboard"
	path = strings.TrimRight(path, "/")

	groups := make([]NavGroup, 0, len(sidebarSpec))
	for _, g := range sidebarSpec {
		group := NavGroup{}
		if g.title != "" {
			group.Title = i18n.T(l, "sidebar."+g.title)
		}
		for _, spec := range g.items {
			item := buildItem(l, base, path, spec)
			for _, child := range spec.children {
				c := buildItem(l, base, path, child)
				if c.Active {
					item.ParentActive = true
				}
				item.Children = append(item.Children, c)
			}
			item.Open = item.HasChildren() && (item.ParentActive || open == spec.key)
			group.Items = append(group.Items, item)
		}
		groups = append(groups, group)
	}
	return groups
}

func buildItem(l i18n.Locale, base, path string, spec navSpec) NavItem {
	item := NavItem{
		Key:   spec.key,
		Label: i18n.T(l, "sidebar."+spec.key),
		Icon:  spec.icon,
	}
	if spec.children != nil {
		return item
	}
	item.Href = base + spec.href
	item.Active = path == item.Href
	if spec.key == "universities" && strings.HasPrefix(path, item.Href+"/") {
		item.Active = true
	}
	return item
}

// PlaceholderTarget reports whether rel (e.g. "/tasks") is a sidebar link
// without a screen of its own
func PlaceholderTarget(rel string) (string, bool) {
	rel = "/" + strings.Trim(rel, "/")
	for _, g := range sidebarSpec {
		for _, spec := range g.items {
			if key, ok := placeholderKey(spec, rel); ok {
				return key, true
			}
			for _, child := range spec.children {
				if key, ok := placeholderKey(child, rel); ok {
					return key, true
				}
			}
		}
	}
	return "", false
}

func placeholderKey(spec navSpec, rel string) (string, bool) {
	if spec.href == "" || spec.key == "universities" {
		return "", false
	}
	return spec.key, spec.href == rel
}
