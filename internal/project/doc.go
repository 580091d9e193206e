// Package project loads the project import file handed to the browser
// extension.
//
// The document looks like:
//
//	{
//	  "project":   {"id": "p1", "name": "Demo", "workflowIds": ["w1"]},
//	  "workflows": [{"id": "w1", "steps": []}],
//	  "bridge":    {"host": "localhost", "http_port": 5001, "ws_port": 8765}
//	}
//
// project.id is required and workflows must be an array. Workflows without a
// string id are dropped; when workflowIds is absent it lists the kept ones.
package project
