package domain

import (
	"time"
)

// Product is a catalog row. Prices are integer Rupiah.
type Product struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	NamaProduk string    `gorm:"column:nama_produk" json:"nama_produk"`
	Harga      int64     `gorm:"column:harga" json:"harga"`
	Stok       int       `gorm:"column:stok" json:"stok"`
	Kategori   string    `gorm:"column:kategori" json:"kategori"`
	Deskripsi  string    `gorm:"column:deskripsi" json:"deskripsi"`
	Photo1     *string   `gorm:"column:photo1" json:"photo1"`
	Photo2     *string   `gorm:"column:photo2" json:"photo2"`
	Photo3     *string   `gorm:"column:photo3" json:"photo3"`
	Size1      *string   `gorm:"column:size1" json:"size1"`
	Size2      *string   `gorm:"column:size2" json:"size2"`
	Size3      *string   `gorm:"column:size3" json:"size3"`
	Size4      *string   `gorm:"column:size4" json:"size4"`
	Size5      *string   `gorm:"column:size5" json:"size5"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string { return "produk" }

// Sizes returns the declared sizes in column order, skipping empty slots.
func (p Product) Sizes() []string {
	var out []string
	for _, s := range []*string{p.Size1, p.Size2, p.Size3, p.Size4, p.Size5} {
		if s != nil && *s != "" {
			out = append(out, *s)
		}
	}
	return out
}

// HasSize reports whether size is one of the declared sizes.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes() {
		if s == size {
			return true
		}
	}
	return false
}

func (p Product) Summary() Summary {
	return Summary{ID: p.ID, NamaProduk: p.NamaProduk, Photo1: p.Photo1, Harga: p.Harga}
}

// Summary is the minimal product projection joined into cart and favorite lines.
type Summary struct {
	ID         string  `json:"id"`
	NamaProduk string  `json:"nama_produk"`
	Photo1     *string `json:"photo1"`
	Harga      int64   `json:"harga"`
}
