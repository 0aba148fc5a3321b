package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"library-admin/internal/model"
	"library-admin/internal/storage"
)

// 示例书目：覆盖全部借阅类型和大部分分类
var seedBooks = []model.Book{
	{Name: "Moby Dick", Author: "Herman Melville", YearPublished: 1851, LoanTimeType: model.LoanTypeTenDays, Category: model.CategoryFiction},
	{Name: "1984", Author: "George Orwell", YearPublished: 1949, LoanTimeType: model.LoanTypeTenDays, Category: model.CategoryScienceFiction},
	{Name: "The Hobbit", Author: "J.R.R. Tolkien", YearPublished: 1937, LoanTimeType: model.LoanTypeFiveDays, Category: model.CategoryFantasy},
	{Name: "Murder on the Orient Express", Author: "Agatha Christie", YearPublished: 1934, LoanTimeType: model.LoanTypeFiveDays, Category: model.CategoryMystery},
	{Name: "The Diary of a Young Girl", Author: "Anne Frank", YearPublished: 1947, LoanTimeType: model.LoanTypeTwoDays, Category: model.CategoryBiography},
	{Name: "Charlotte's Web", Author: "E.B. White", YearPublished: 1952, LoanTimeType: model.LoanTypeTwoDays, Category: model.CategoryChildren},
	{Name: "A Brief History of Time", Author: "Stephen Hawking", YearPublished: 1988, LoanTimeType: model.LoanTypeTenDays, Category: model.CategoryNonFiction},
}

var seedCustomers = []model.Customer{
	{FullName: "Noa Levi", Email: "noa.levi@example.com", City: model.CityTelAviv, Age: 29},
	{FullName: "David Cohen", Email: "david.cohen@example.com", City: model.CityJerusalem, Age: 41},
	{FullName: "Maya Peretz", Email: "maya.peretz@example.com", City: model.CityHaifa, Age: 23},
	{FullName: "Eli Mizrahi", Email: "eli.mizrahi@example.com", City: model.CityEilat, Age: 35},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a sample catalog of books and customers",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()

		ctx := context.Background()
		created, skipped := 0, 0

		for i := range seedBooks {
			book := seedBooks[i]
			book.IsActive = true
			switch err := store.CreateBook(ctx, &book); err {
			case nil:
				created++
			case storage.ErrDuplicate:
				skipped++
			default:
				return fmt.Errorf("seed book %q: %w", book.Name, err)
			}
		}

		for i := range seedCustomers {
			customer := seedCustomers[i]
			customer.IsActive = true
			switch err := store.CreateCustomer(ctx, &customer); err {
			case nil:
				created++
			case storage.ErrDuplicate:
				skipped++
			default:
				return fmt.Errorf("seed customer %q: %w", customer.Email, err)
			}
		}

		log.Printf("[seed] Done: %d created, %d already present", created, skipped)
		return nil
	},
}
