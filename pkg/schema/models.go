// Package schema provides database schema models for gnamed.
// The same models serve PostgreSQL and SQLite through GORM.
package schema

import (
	"database/sql"
	"time"

	"github.com/gnames/gnamed/pkg/entity"
)

// Species is a node of the NCBI taxonomy after merges were applied.
type Species struct {
	// ID is the NCBI taxonomy id.
	ID int `gorm:"column:id;primaryKey;autoIncrement:false"`

	// ParentID is NULL for the root.
	ParentID sql.NullInt32 `gorm:"column:parent_id;index"`

	// Rank is the taxonomic rank, "merged" for merged away nodes.
	Rank string `gorm:"column:rank;type:varchar(32);not null"`

	// UniqueName is the scientific name made unique by NCBI.
	UniqueName string `gorm:"column:unique_name;type:text;not null"`

	// GenbankName is the GenBank common name when present.
	GenbankName sql.NullString `gorm:"column:genbank_name;type:text"`
}

// TableName implements GORM's Tabler.
func (Species) TableName() string { return "species" }

// SpeciesName is a categorized name of a species.
type SpeciesName struct {
	SpeciesID int    `gorm:"column:species_id;primaryKey;autoIncrement:false"`
	Category  string `gorm:"column:category;type:varchar(64);primaryKey"`
	Name      string `gorm:"column:name;type:text;primaryKey"`
}

// TableName implements GORM's Tabler.
func (SpeciesName) TableName() string { return "species_names" }

// Gene is a unified gene entity.
type Gene struct {
	ID         int64          `gorm:"column:id;primaryKey;autoIncrement:false"`
	SpeciesID  int            `gorm:"column:species_id;not null;index"`
	Chromosome sql.NullString `gorm:"column:chromosome;type:varchar(32)"`
	Location   sql.NullString `gorm:"column:location;type:varchar(64)"`
}

// TableName implements GORM's Tabler.
func (Gene) TableName() string { return "genes" }

// Protein is a unified protein entity.
type Protein struct {
	ID        int64         `gorm:"column:id;primaryKey;autoIncrement:false"`
	SpeciesID int           `gorm:"column:species_id;not null;index"`
	Length    sql.NullInt64 `gorm:"column:length"`
	Mass      sql.NullInt64 `gorm:"column:mass"`
}

// TableName implements GORM's Tabler.
func (Protein) TableName() string { return "proteins" }

// RefColumns are shared by gene and protein reference tables. A
// (namespace, accession) pair belongs to exactly one entity.
type RefColumns struct {
	Namespace string         `gorm:"column:namespace;type:varchar(64);primaryKey"`
	Accession string         `gorm:"column:accession;type:text;primaryKey"`
	EntityID  int64          `gorm:"column:entity_id;not null;index"`
	Symbol    sql.NullString `gorm:"column:symbol;type:text"`
	Name      sql.NullString `gorm:"column:name;type:text"`
}

// GeneRef maps a source reference to a gene.
type GeneRef struct{ RefColumns }

// TableName implements GORM's Tabler.
func (GeneRef) TableName() string { return RefsTable(entity.Gene) }

// ProteinRef maps a source reference to a protein.
type ProteinRef struct{ RefColumns }

// TableName implements GORM's Tabler.
func (ProteinRef) TableName() string { return RefsTable(entity.Protein) }

// StringColumns are shared by the string pool tables.
type StringColumns struct {
	EntityID int64  `gorm:"column:entity_id;primaryKey;autoIncrement:false"`
	Category string `gorm:"column:category;type:text;primaryKey"`
	Value    string `gorm:"column:value;type:text;primaryKey"`
}

// GeneString is a categorized string of a gene.
type GeneString struct{ StringColumns }

// TableName implements GORM's Tabler.
func (GeneString) TableName() string { return StringsTable(entity.Gene) }

// ProteinString is a categorized string of a protein.
type ProteinString struct{ StringColumns }

// TableName implements GORM's Tabler.
func (ProteinString) TableName() string { return StringsTable(entity.Protein) }

// PubMedColumns are shared by citation tables.
type PubMedColumns struct {
	EntityID int64 `gorm:"column:entity_id;primaryKey;autoIncrement:false"`
	PMID     int   `gorm:"column:pmid;primaryKey;autoIncrement:false;index"`
}

// Gene2PubMed is a gene citation.
type Gene2PubMed struct{ PubMedColumns }

// TableName implements GORM's Tabler.
func (Gene2PubMed) TableName() string { return PubMedTable(entity.Gene) }

// Protein2PubMed is a protein citation.
type Protein2PubMed struct{ PubMedColumns }

// TableName implements GORM's Tabler.
func (Protein2PubMed) TableName() string { return PubMedTable(entity.Protein) }

// Gene2Protein links a gene to a protein it encodes.
type Gene2Protein struct {
	GeneID    int64 `gorm:"column:gene_id;primaryKey;autoIncrement:false"`
	ProteinID int64 `gorm:"column:protein_id;primaryKey;autoIncrement:false;index"`
}

// TableName implements GORM's Tabler.
func (Gene2Protein) TableName() string { return MappingsTable }

// Load records one processed source file.
type Load struct {
	// ID is a random UUID of the load.
	ID         string    `gorm:"column:id;type:varchar(36);primaryKey"`
	// SourceID is UUID v5 of the namespace and the file, it is the same
	// for every load of a source.
	SourceID   string    `gorm:"column:source_id;type:varchar(36);not null;index"`
	Namespace  string    `gorm:"column:namespace;type:varchar(64);not null;index"`
	Kind       string    `gorm:"column:kind;type:varchar(16);not null"`
	File       string    `gorm:"column:file;type:text;not null"`
	Mode       string    `gorm:"column:mode;type:varchar(16);not null"`
	Records    int64     `gorm:"column:records;not null"`
	Rejected   int64     `gorm:"column:rejected;not null"`
	Failed     int64     `gorm:"column:failed;not null"`
	Created    int64     `gorm:"column:created;not null"`
	StartedAt  time.Time `gorm:"column:started_at;not null"`
	FinishedAt time.Time `gorm:"column:finished_at;not null"`
}

// TableName implements GORM's Tabler.
func (Load) TableName() string { return "loads" }

// MappingsTable keeps gene to protein links.
const MappingsTable = "genes2proteins"

// EntityTable returns the table of entities of a kind.
func EntityTable(k entity.Kind) string {
	return k.String() + "s"
}

// RefsTable returns the reference table of a kind.
func RefsTable(k entity.Kind) string {
	return k.String() + "_refs"
}

// StringsTable returns the string pool table of a kind.
func StringsTable(k entity.Kind) string {
	return k.String() + "_strings"
}

// PubMedTable returns the citation table of a kind.
func PubMedTable(k entity.Kind) string {
	return k.String() + "2pubmed"
}
