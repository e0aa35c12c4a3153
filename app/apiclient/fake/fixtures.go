package fake

import (
	"fmt"

	"zettaboard/app/models"
)

// Posts returns n posts spread round-robin over users 1..5.
func Posts(n int) []models.Post {
	posts := make([]models.Post, 0, n)
	for i := 1; i <= n; i++ {
		posts = append(posts, models.Post{
			UserID: (i-1)%5 + 1,
			ID:     i,
			Title:  fmt.Sprintf("post title %d", i),
			Body:   fmt.Sprintf("body of post %d", i),
		})
	}
	return posts
}

// Users returns six users. User 6 has none of the optional fields.
func Users() []models.User {
	return []models.User{
		{
			ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz",
			Phone: "1-770-736-8031 x56442", Website: "hildegard.org",
			Company: &models.Company{Name: "Romaguera-Crona", CatchPhrase: "Multi-layered client-server neural-net", BS: "harness real-time e-markets"},
			Address: &models.Address{Street: "Kulas Light", Suite: "Apt. 556", City: "Gwenborough", Zipcode: "92998-3874"},
		},
		{
			ID: 2, Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv",
			Phone: "010-692-6593 x09125", Website: "anastasia.net",
			Company: &models.Company{Name: "Deckow-Crist", CatchPhrase: "Proactive didactic contingency"},
			Address: &models.Address{City: "Wisokyburgh"},
		},
		{
			ID: 3, Name: "Clementine Bauch", Username: "Samantha", Email: "Nathan@yesenia.net",
			Website: "ramiro.info",
			Company: &models.Company{Name: "Romaguera-Jacobson"},
			Address: &models.Address{City: "McKenziehaven"},
		},
		{
			ID: 4, Name: "Patricia Lebsack", Username: "Karianne", Email: "Julianne.OConner@kory.org",
			Company: &models.Company{Name: "Robel-Corkery"},
			Address: &models.Address{City: "South Elvis"},
		},
		{
			ID: 5, Name: "Chelsey Dietrich", Username: "Kamren", Email: "Lucio_Hettinger@annie.ca",
			Company: &models.Company{Name: "Keebler LLC"},
			Address: &models.Address{City: "Roscoeview"},
		},
		{ID: 6, Name: "Dennis Schulist", Username: "Leopoldo_Corkery", Email: "Karley_Dach@jasper.info"},
	}
}

// Comments returns perPost comments for each of posts 1..posts.
func Comments(posts, perPost int) []models.Comment {
	comments := make([]models.Comment, 0, posts*perPost)
	id := 1
	for p := 1; p <= posts; p++ {
		for i := 0; i < perPost; i++ {
			comments = append(comments, models.Comment{
				PostID: p,
				ID:     id,
				Name:   fmt.Sprintf("comment %d", id),
				Email:  fmt.Sprintf("reader%d@example.com", id),
				Body:   fmt.Sprintf("comment body %d", id),
			})
			id++
		}
	}
	return comments
}
