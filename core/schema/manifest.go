package schema

import (
	"context"
	"fmt"

	"youthworks-db/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/viper"
)

// Manifest is the declarative description of the target schema, loaded from
// a YAML file or an object in the operations bucket.
//
//	tables:
//	  - name: youth_profiles
//	    columns:
//	      - name: transition_status
//	        definition: TEXT DEFAULT 'Not Started'
type Manifest struct {
	Tables []ManifestTable `mapstructure:"tables"`
}

// ManifestTable declares one table and its expected columns.
type ManifestTable struct {
	Name    string           `mapstructure:"name"`
	Columns []ManifestColumn `mapstructure:"columns"`
}

// ManifestColumn declares one expected column.
type ManifestColumn struct {
	Name         string `mapstructure:"name"`
	Definition   string `mapstructure:"definition"`
	RelaxNotNull bool   `mapstructure:"relax_not_null"`
	FillDefault  string `mapstructure:"fill_default"`
}

// Specs flattens the manifest into the spec list Reconcile consumes,
// preserving declaration order.
func (m *Manifest) Specs() []ColumnSpec {
	var specs []ColumnSpec
	for _, table := range m.Tables {
		for _, col := range table.Columns {
			specs = append(specs, ColumnSpec{
				Table:        table.Name,
				Column:       col.Name,
				Definition:   col.Definition,
				RelaxNotNull: col.RelaxNotNull,
				FillDefault:  col.FillDefault,
			})
		}
	}
	return specs
}

// LoadManifestFile reads a schema manifest from a local YAML file.
func LoadManifestFile(path string) ([]ColumnSpec, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return unmarshalManifest(v)
}

// LoadManifestObject reads a schema manifest from the operations bucket.
func LoadManifestObject(ctx context.Context, client storage.Client, bucket, objectName string) ([]ColumnSpec, error) {
	ok, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check operations bucket %s: %w", bucket, err)
	}
	if !ok {
		return nil, fmt.Errorf("operations bucket %s does not exist", bucket)
	}

	body, err := client.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest %s: %w", objectName, err)
	}
	defer body.Close()

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(body); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", objectName, err)
	}
	return unmarshalManifest(v)
}

func unmarshalManifest(v *viper.Viper) ([]ColumnSpec, error) {
	var manifest Manifest
	if err := v.Unmarshal(&manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if len(manifest.Tables) == 0 {
		return nil, fmt.Errorf("manifest declares no tables")
	}
	return manifest.Specs(), nil
}
