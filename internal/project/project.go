package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// Project is the project object of an import file. Fields other than the
// ones named here are kept verbatim in Attributes.
type Project struct {
	ID          string
	Name        string
	WorkflowIDs []string
	Attributes  map[string]any
}

// Workflow is an opaque workflow definition with a string id.
type Workflow map[string]any

// ID returns the workflow id
func (w Workflow) ID() string {
	id, _ := w["id"].(string)
	return id
}

// BridgeSection overrides the bridge address the extension talks to.
type BridgeSection struct {
	Host     string `json:"host,omitempty"`
	HTTPPort int    `json:"http_port,omitempty"`
	WSPort   int    `json:"ws_port,omitempty"`
}

// File is a validated import file.
type File struct {
	Path      string
	Project   Project
	Workflows []Workflow
	Bridge    *BridgeSection
}

type rawFile struct {
	Project   map[string]any `json:"project"`
	Workflows any            `json:"workflows"`
	Bridge    *BridgeSection `json:"bridge,omitempty"`
}

// Load reads and validates the import file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, invalid(path, "cannot read file", err)
	}
	return Parse(path, data)
}

// Parse validates an import document. path is only used in errors.
func Parse(path string, data []byte) (*File, error) {
	var raw rawFile
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, invalid(path, "not valid JSON", err)
	}
	if raw.Project == nil {
		return nil, invalid(path, "missing project object", nil)
	}
	projectID, ok := raw.Project["id"].(string)
	if !ok || projectID == "" {
		return nil, invalid(path, "project.id must be a non-empty string", nil)
	}
	items, ok := raw.Workflows.([]any)
	if !ok {
		return nil, invalid(path, "workflows must be an array", nil)
	}

	// workflows without a string id are skipped, as the extension does
	workflows := make([]Workflow, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if _, ok := obj["id"].(string); !ok {
			continue
		}
		workflows = append(workflows, Workflow(obj))
	}

	p := Project{ID: projectID, Attributes: map[string]any{}}
	p.Name, _ = raw.Project["name"].(string)
	if ids, ok := raw.Project["workflowIds"].([]any); ok {
		p.WorkflowIDs = make([]string, 0, len(ids))
		for _, v := range ids {
			if s, ok := v.(string); ok {
				p.WorkflowIDs = append(p.WorkflowIDs, s)
			}
		}
	} else {
		p.WorkflowIDs = make([]string, 0, len(workflows))
		for _, wf := range workflows {
			p.WorkflowIDs = append(p.WorkflowIDs, wf.ID())
		}
	}
	for k, v := range raw.Project {
		switch k {
		case "id", "name", "workflowIds":
		default:
			p.Attributes[k] = v
		}
	}

	return &File{Path: path, Project: p, Workflows: workflows, Bridge: raw.Bridge}, nil
}

// Document renders the normalized import document the extension reads.
func (f *File) Document() map[string]any {
	project := make(map[string]any, len(f.Project.Attributes)+3)
	for k, v := range f.Project.Attributes {
		project[k] = v
	}
	project["id"] = f.Project.ID
	if f.Project.Name != "" {
		project["name"] = f.Project.Name
	}
	ids := f.Project.WorkflowIDs
	if ids == nil {
		ids = []string{}
	}
	project["workflowIds"] = ids

	workflows := f.Workflows
	if workflows == nil {
		workflows = []Workflow{}
	}
	doc := map[string]any{
		"project":   project,
		"workflows": workflows,
	}
	if f.Bridge != nil {
		doc["bridge"] = f.Bridge
	}
	return doc
}

// Marshal encodes the normalized document with sorted keys.
func (f *File) Marshal() ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(f.Document(), "", "  ")
}

// Write stores the normalized document at path, creating parent directories.
func (f *File) Write(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return fmt.Errorf("encode project %s: %w", f.Project.ID, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
