package catalog

import "sqldrill/internal/domain/model"

// Solutions carry an ORDER BY so their result sets have a stable row order;
// comparison against attempts is positional.
func allProblems() []model.Problem {
	return []model.Problem{
		{
			ID:    "1",
			Title: "List all customers",
			Description: "Select the id and name of every customer, ordered by " +
				"customer id.",
			Solutions: []model.Solution{
				{SQL: "SELECT customer_id, customer_name FROM customer ORDER BY customer_id;"},
			},
		},
		{
			ID:    "2",
			Title: "Female customers",
			Description: "Select the id, name and age of all female customers, " +
				"ordered by customer id.",
			Solutions: []model.Solution{
				{SQL: "SELECT customer_id, customer_name, age FROM customer WHERE gender = 'Female' ORDER BY customer_id;"},
				{SQL: "SELECT customer_id, customer_name, age FROM customer WHERE gender_cd = 'F' ORDER BY customer_id;"},
			},
		},
		{
			ID:    "3",
			Title: "Premium products",
			Description: "Select the product code and unit price of products whose " +
				"unit price is 300 or more, ordered by product code.",
			Solutions: []model.Solution{
				{SQL: "SELECT product_cd, unit_price FROM product WHERE unit_price >= 300 ORDER BY product_cd;"},
			},
		},
		{
			ID:    "4",
			Title: "Sales per store",
			Description: "Compute the total receipt amount per store as total_amount, " +
				"ordered by store code.",
			Solutions: []model.Solution{
				{SQL: "SELECT store_cd, SUM(amount) AS total_amount FROM receipt GROUP BY store_cd ORDER BY store_cd;"},
			},
		},
		{
			ID:    "5",
			Title: "Receipts with store names",
			Description: "List receipt number, store name and amount for every receipt " +
				"line, ordered by receipt number then amount.",
			Solutions: []model.Solution{
				{SQL: "SELECT r.receipt_no, s.store_name, r.amount FROM receipt r JOIN store s ON r.store_cd = s.store_cd ORDER BY r.receipt_no, r.amount;"},
				{SQL: "SELECT r.receipt_no, s.store_name, r.amount FROM receipt r, store s WHERE r.store_cd = s.store_cd ORDER BY r.receipt_no, r.amount;"},
			},
		},
		{
			ID:    "6",
			Title: "Big spenders",
			Description: "Find customers whose receipt lines sum to 1000 or more. " +
				"Return customer id, name and the sum as total_amount, ordered by " +
				"customer id.",
			Solutions: []model.Solution{
				{SQL: "SELECT c.customer_id, c.customer_name, SUM(r.amount) AS total_amount FROM customer c JOIN receipt r ON c.customer_id = r.customer_id GROUP BY c.customer_id, c.customer_name HAVING SUM(r.amount) >= 1000 ORDER BY c.customer_id;"},
			},
		},
		{
			ID:    "7",
			Title: "Lines sold per product category",
			Description: "Count receipt lines per major category code as line_count, " +
				"ordered by category code.",
			Solutions: []model.Solution{
				{SQL: "SELECT p.category_major_cd, COUNT(*) AS line_count FROM receipt r JOIN product p ON r.product_cd = p.product_cd GROUP BY p.category_major_cd ORDER BY p.category_major_cd;"},
			},
		},
		{
			ID:    "8",
			Title: "Priciest product per category",
			Description: "Find the highest unit price per major category code as " +
				"max_price, ordered by category code.",
			Solutions: []model.Solution{
				{SQL: "SELECT category_major_cd, MAX(unit_price) AS max_price FROM product GROUP BY category_major_cd ORDER BY category_major_cd;"},
			},
		},
	}
}
