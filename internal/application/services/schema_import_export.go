package services

import (
	"context"

	"github.com/nexuscrm/builder/internal/codec"
	"github.com/nexuscrm/builder/pkg/models"
	"go.uber.org/zap"
)

// ImportResult summarizes an applied import
type ImportResult struct {
	Merge          bool `json:"merge"`
	Objects        int  `json:"objects"`
	Replaced       int  `json:"replaced"`
	PermissionSets int  `json:"permissionSets"`
	Version        int  `json:"version"`
}

// ExportSchema serializes the whole schema, or only objectAPIName when it is non-empty
func (s *SchemaStore) ExportSchema(objectAPIName string, format codec.Format) ([]byte, error) {
	var out []byte
	err := s.read(func(schema *models.OrgSchema) error {
		var err error
		if objectAPIName == "" {
			out, err = codec.Export(schema, format)
		} else {
			out, err = codec.ExportObject(schema, objectAPIName, format)
		}
		return err
	})
	return out, err
}

// ImportSchema parses a JSON or YAML document, regenerates every identifier
// and applies it. With merge, objects and permission sets replace the ones
// sharing their apiName or name and the rest are appended; without merge the
// whole graph is replaced. The store version is left as is, so the next save
// stays monotonic. Malformed or inconsistent documents change nothing.
func (s *SchemaStore) ImportSchema(ctx context.Context, data []byte, merge bool) (ImportResult, error) {
	imported, err := codec.Import(data, "", s.newID, s.now())
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Merge: merge, Objects: len(imported.Objects), PermissionSets: len(imported.PermissionSets)}
	err = s.mutate(ctx, "ImportSchema", func(draft *models.OrgSchema) error {
		if !merge {
			draft.Objects = imported.Objects
			draft.PermissionSets = imported.PermissionSets
		} else {
			for _, obj := range imported.Objects {
				if idx := draft.ObjectIndex(obj.APIName); idx >= 0 {
					draft.Objects[idx] = obj
					result.Replaced++
				} else {
					draft.Objects = append(draft.Objects, obj)
				}
			}
			for _, ps := range imported.PermissionSets {
				replaced := false
				for i := range draft.PermissionSets {
					if draft.PermissionSets[i].Name == ps.Name {
						draft.PermissionSets[i] = ps
						replaced = true
						break
					}
				}
				if !replaced {
					draft.PermissionSets = append(draft.PermissionSets, ps)
				}
			}
		}
		draft.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	result.Version = s.Version()

	s.logger.Info("Schema imported",
		zap.Bool("merge", merge),
		zap.Int("objects", result.Objects),
		zap.Int("replaced", result.Replaced),
		zap.Int("version", result.Version))
	return result, nil
}
