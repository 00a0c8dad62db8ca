// Package deploy translates a project snapshot into a deployment plan:
// which nodes become provisioned databases, which become services, and
// which connection-string variables each service needs. Actually
// provisioning the plan against an infrastructure provider is a
// collaborator's job.
package deploy

import (
	"fmt"
	"strings"

	"buildflow-backend/domain/core/entities"
	"buildflow-backend/domain/project"
	apperrors "buildflow-backend/pkg/errors"
)

// DatabasePlan is one database to provision.
type DatabasePlan struct {
	NodeID string `json:"nodeId"`
	Name   string `json:"name"`
	Plugin string `json:"plugin"`
}

// ServicePlan is one application service to provision. Env maps variable
// names to provider-style references against sibling databases.
type ServicePlan struct {
	NodeID    string            `json:"nodeId"`
	Name      string            `json:"name"`
	Env       map[string]string `json:"env,omitempty"`
	NeedsCode bool              `json:"needsCode"`
}

// Plan is the full deployment mapping for one project. Databases come
// first: services may reference them.
type Plan struct {
	ProjectName string         `json:"projectName"`
	Databases   []DatabasePlan `json:"databases"`
	Services    []ServicePlan  `json:"services"`
}

// databasePlugins maps database-kind node types to provisioning plugins.
var databasePlugins = map[string]string{
	"database": "postgresql",
	"postgres": "postgresql",
	"mysql":    "mysql",
	"mongodb":  "mongodb",
	"redis":    "redis",
	"cache":    "redis",
}

// connectionVariables maps a plugin to the env var a connected service
// receives.
var connectionVariables = map[string]string{
	"postgresql": "DATABASE_URL",
	"mysql":      "MYSQL_URL",
	"mongodb":    "MONGO_URL",
	"redis":      "REDIS_URL",
}

// clientTypes are diagram-only nodes that never deploy.
var clientTypes = map[string]bool{
	"frontend": false, // frontends deploy as static services
	"mobile":   true,
}

// BuildPlan maps the snapshot to a deployment plan. A snapshot without
// nodes cannot be deployed.
func BuildPlan(projectName string, snap *project.Snapshot) (*Plan, error) {
	if snap == nil || len(snap.Nodes) == 0 {
		return nil, apperrors.NewValidationError("diagram has no nodes to deploy")
	}

	plan := &Plan{ProjectName: sanitizeName(projectName)}
	if plan.ProjectName == "" {
		plan.ProjectName = "buildflow-project"
	}

	databases := make(map[string]DatabasePlan) // node id -> plan
	usedNames := make(map[string]int)

	for _, node := range snap.Nodes {
		if clientTypes[node.Type] {
			continue
		}
		name := uniqueName(usedNames, sanitizeName(node.Data.Name), sanitizeName(node.Type))
		if plugin, ok := databasePlugins[node.Type]; ok {
			db := DatabasePlan{NodeID: node.ID.String(), Name: name, Plugin: plugin}
			databases[node.ID.String()] = db
			plan.Databases = append(plan.Databases, db)
			continue
		}
		plan.Services = append(plan.Services, ServicePlan{
			NodeID:    node.ID.String(),
			Name:      name,
			NeedsCode: true,
		})
	}

	// An edge between a service and a database grants the service a
	// connection-string reference, regardless of which end the user
	// drew first.
	for i := range plan.Services {
		svc := &plan.Services[i]
		for _, edge := range snap.Edges {
			db, ok := databaseEndpoint(databases, edge, svc.NodeID)
			if !ok {
				continue
			}
			varName := connectionVariables[db.Plugin]
			if varName == "" {
				continue
			}
			if svc.Env == nil {
				svc.Env = make(map[string]string)
			}
			svc.Env[varName] = fmt.Sprintf("${{%s.%s}}", db.Name, varName)
		}
	}

	return plan, nil
}

// Metadata renders the plan as the loosely-typed metadata blob stored on
// the project record.
func (p *Plan) Metadata() map[string]interface{} {
	services := make([]interface{}, 0, len(p.Services))
	for _, s := range p.Services {
		services = append(services, map[string]interface{}{
			"nodeId":    s.NodeID,
			"name":      s.Name,
			"needsCode": s.NeedsCode,
		})
	}
	dbs := make([]interface{}, 0, len(p.Databases))
	for _, d := range p.Databases {
		dbs = append(dbs, map[string]interface{}{
			"nodeId": d.NodeID,
			"name":   d.Name,
			"plugin": d.Plugin,
		})
	}
	return map[string]interface{}{
		"projectName": p.ProjectName,
		"services":    services,
		"databases":   dbs,
	}
}

func databaseEndpoint(databases map[string]DatabasePlan, edge *entities.Edge, serviceNodeID string) (DatabasePlan, bool) {
	if edge.Source.String() == serviceNodeID {
		db, ok := databases[edge.Target.String()]
		return db, ok
	}
	if edge.Target.String() == serviceNodeID {
		db, ok := databases[edge.Source.String()]
		return db, ok
	}
	return DatabasePlan{}, false
}

func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true // trim leading dashes
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func uniqueName(used map[string]int, preferred, fallback string) string {
	name := preferred
	if name == "" {
		name = fallback
	}
	if name == "" {
		name = "component"
	}
	used[name]++
	if used[name] > 1 {
		return fmt.Sprintf("%s-%d", name, used[name])
	}
	return name
}
