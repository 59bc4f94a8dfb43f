package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&Species{},
		&SpeciesName{},
		&Gene{},
		&Protein{},
		&GeneRef{},
		&ProteinRef{},
		&GeneString{},
		&ProteinString{},
		&Gene2PubMed{},
		&Protein2PubMed{},
		&Gene2Protein{},
		&Load{},
	}
}

// TableNames returns table names of all models in migration order.
func TableNames() []string {
	var res []string
	for _, v := range AllModels() {
		res = append(res, v.(interface{ TableName() string }).TableName())
	}
	return res
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
