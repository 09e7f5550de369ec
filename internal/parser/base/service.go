// Package base parses the general API information of the main API file.
package base

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/griffnb/core-endpoints/internal/document"
)

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

// Tag is a tag declared with @tag.name.
type Tag struct {
	Name        string
	Description string
}

// GeneralInfo is what the general API comments declare.
type GeneralInfo struct {
	Info document.Info
	Tags []Tag
}

// Apply copies the non-empty information and the tags into doc.
func (g *GeneralInfo) Apply(doc *document.Document) {
	doc.ApplyInfo(g.Info)
	for _, tag := range g.Tags {
		doc.AddTag(tag.Name, tag.Description)
	}
}

// Service handles parsing of general API information from comments
type Service struct {
	info            *GeneralInfo
	markdownFileDir string
	debug           Debugger
}

// NewService creates a new base parser service
func NewService() *Service {
	return &Service{
		info: &GeneralInfo{},
	}
}

// SetMarkdownFileDir sets the directory for markdown files
func (s *Service) SetMarkdownFileDir(dir string) {
	s.markdownFileDir = dir
}

// SetDebugger sets the debugger for logging
func (s *Service) SetDebugger(debug Debugger) {
	s.debug = debug
}

// Reset forgets the information parsed so far.
func (s *Service) Reset() {
	s.info = &GeneralInfo{}
}

// Info returns the information parsed so far.
func (s *Service) Info() *GeneralInfo {
	return s.info
}

// ParseGeneralInfo parses general API info from comment lines
func (s *Service) ParseGeneralInfo(comments []string) error {
	previousAttribute := ""
	var tag *Tag

	for line := 0; line < len(comments); line++ {
		commentLine := strings.TrimSpace(comments[line])
		if len(commentLine) == 0 {
			continue
		}
		fields := FieldsByAnySpace(commentLine, 2)

		attribute := fields[0]
		var value string
		if len(fields) > 1 {
			value = fields[1]
		}

		switch attr := strings.ToLower(attribute); attr {
		case "@version", "@title", "@termsofservice", "@basepath":
			s.setInfo(attr, value)

		case "@description":
			if previousAttribute == attribute {
				s.info.Info.Description = AppendDescription(s.info.Info.Description, value)
				continue
			}
			s.setInfo(attr, value)

		case "@description.markdown":
			commentInfo, err := s.getMarkdownForTag("api")
			if err != nil {
				return err
			}
			s.setInfo("@description", string(commentInfo))

		case "@tag.name":
			s.info.Tags = append(s.info.Tags, Tag{Name: value})
			tag = &s.info.Tags[len(s.info.Tags)-1]

		case "@tag.description":
			if tag != nil {
				tag.Description = value
			}

		case "@tag.description.markdown":
			if tag != nil {
				commentInfo, err := s.getMarkdownForTag(tag.Name)
				if err != nil {
					return err
				}
				tag.Description = string(commentInfo)
			}

		default:
			if s.debug != nil && strings.HasPrefix(attribute, "@") {
				s.debug.Printf("ignoring general info annotation %s", attribute)
			}
		}

		previousAttribute = attribute
	}

	return nil
}

// ParseGeneralAPIInfo parses general api info for given mainAPIFile path
func (s *Service) ParseGeneralAPIInfo(mainAPIFile string) error {
	fileTree, err := parser.ParseFile(token.NewFileSet(), mainAPIFile, nil, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("cannot parse source files %s: %s", mainAPIFile, err)
	}
	return s.ParseFile(fileTree)
}

// ParseFile parses the general api info of an already parsed file.
func (s *Service) ParseFile(fileTree *ast.File) error {
	for _, comment := range fileTree.Comments {
		comments := strings.Split(comment.Text(), "\n")
		if !isGeneralAPIComment(comments) {
			continue
		}

		if err := s.ParseGeneralInfo(comments); err != nil {
			return err
		}
	}

	return nil
}
