// Package scenegraph exports the extracted reference graph to Neo4j:
// objects, group membership, and position-variable references with their
// privacy classification. The export is inspection tooling; extraction
// itself never touches the database.
package scenegraph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"

	"scenepatch/internal/parser"
)

// Exporter writes scene models into the Neo4j graph.
type Exporter struct {
	driver neo4j.DriverWithContext
}

// NewExporter creates a new exporter.
func NewExporter(driver neo4j.DriverWithContext) *Exporter {
	return &Exporter{driver: driver}
}

// EnsureSchema creates constraints on the graph database.
func (e *Exporter) EnsureSchema(ctx context.Context) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (o:SceneObject) REQUIRE (o.script, o.name) IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (v:PositionVar) REQUIRE (v.script, v.name) IS UNIQUE",
	}
	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Scene graph schema ensured")
	return nil
}

// Export upserts one scene's objects, variables and edges.
func (e *Exporter) Export(ctx context.Context, scene *parser.Scene, script string) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	for _, o := range scene.Objects {
		_, err := session.Run(ctx, `
			MERGE (o:SceneObject {script: $script, name: $name})
			SET o.type = $type,
			    o.group = $group,
			    o.text_like = $text_like,
			    o.absolute = $absolute,
			    o.x = $x, o.y = $y, o.z = $z,
			    o.position_source = $source
		`, map[string]any{
			"script":    script,
			"name":      o.Name,
			"type":      o.Type,
			"group":     o.GroupLike,
			"text_like": o.TextLike,
			"absolute":  o.AbsoluteCoords,
			"x":         o.Position[0],
			"y":         o.Position[1],
			"z":         o.Position[2],
			"source":    o.PositionSource.String(),
		})
		if err != nil {
			return fmt.Errorf("upsert object %s: %w", o.Name, err)
		}
	}

	for _, v := range scene.Vars {
		_, err := session.Run(ctx, `
			MERGE (v:PositionVar {script: $script, name: $name})
			SET v.x = $x, v.y = $y, v.z = $z,
			    v.private = $private,
			    v.refs = $refs
		`, map[string]any{
			"script":  script,
			"name":    v.Name,
			"x":       v.Value[0],
			"y":       v.Value[1],
			"z":       v.Value[2],
			"private": v.Private,
			"refs":    v.RefCount,
		})
		if err != nil {
			return fmt.Errorf("upsert variable %s: %w", v.Name, err)
		}
	}

	for _, o := range scene.Objects {
		for _, child := range o.Children {
			_, err := session.Run(ctx, `
				MATCH (g:SceneObject {script: $script, name: $group})
				MATCH (c:SceneObject {script: $script, name: $child})
				MERGE (c)-[:CHILD_OF]->(g)
			`, map[string]any{
				"script": script,
				"group":  o.Name,
				"child":  child,
			})
			if err != nil {
				log.Warn().Err(err).Str("group", o.Name).Str("child", child).Msg("Failed to create membership edge")
			}
		}

		if o.PosVar != "" {
			_, err := session.Run(ctx, `
				MATCH (o:SceneObject {script: $script, name: $name})
				MATCH (v:PositionVar {script: $script, name: $var})
				MERGE (o)-[:REFERENCES]->(v)
			`, map[string]any{
				"script": script,
				"name":   o.Name,
				"var":    o.PosVar,
			})
			if err != nil {
				log.Warn().Err(err).Str("object", o.Name).Str("var", o.PosVar).Msg("Failed to create reference edge")
			}
		}
	}

	log.Info().
		Int("objects", len(scene.Objects)).
		Int("variables", len(scene.Vars)).
		Str("script", script).
		Msg("Scene graph exported")
	return nil
}
