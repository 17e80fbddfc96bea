package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hooked/internal/domain/catch"
	"hooked/internal/domain/comment"
	"hooked/internal/domain/epoch"
	"hooked/internal/domain/post"
	"hooked/internal/domain/species"
	"hooked/internal/domain/story"
	"hooked/internal/domain/user"
	"hooked/internal/domain/weather"
)

// DemoUserID is the account the seeded data revolves around.
const DemoUserID = "demo"

var seedSpecies = []species.Species{
	{EnglishName: "Largemouth bass", ScientificName: "Micropterus salmoides", A3Code: "BSM", TaxoCode: "1700300601", ISSCAAP: 13},
	{EnglishName: "Smallmouth bass", ScientificName: "Micropterus dolomieu", A3Code: "SMB", TaxoCode: "1700300602", ISSCAAP: 13},
	{EnglishName: "Bluegill", ScientificName: "Lepomis macrochirus", A3Code: "BGI", ISSCAAP: 13},
	{EnglishName: "Northern pike", ScientificName: "Esox lucius", A3Code: "FPI", ISSCAAP: 13},
	{EnglishName: "Walleye", ScientificName: "Sander vitreus", A3Code: "WAE", ISSCAAP: 13},
	{EnglishName: "Yellow perch", ScientificName: "Perca flavescens", A3Code: "YEP", ISSCAAP: 13},
	{EnglishName: "Rainbow trout", ScientificName: "Oncorhynchus mykiss", A3Code: "TRR", ISSCAAP: 23},
	{EnglishName: "Brown trout", ScientificName: "Salmo trutta", A3Code: "TRS", ISSCAAP: 23},
	{EnglishName: "Channel catfish", ScientificName: "Ictalurus punctatus", A3Code: "CCT", ISSCAAP: 13},
	{EnglishName: "Muskellunge", ScientificName: "Esox masquinongy", A3Code: "MUS", ISSCAAP: 13},
	{EnglishName: "Black crappie", ScientificName: "Pomoxis nigromaculatus", A3Code: "BCR", ISSCAAP: 13},
	{EnglishName: "Common carp", ScientificName: "Cyprinus carpio", A3Code: "FCP", ISSCAAP: 11},
}

// SeedSpecies returns a copy of the species catalogue the demo store ships with.
func SeedSpecies() []species.Species {
	return append([]species.Species(nil), seedSpecies...)
}

// NewDemo returns a store populated with a small social graph around
// DemoUserID: two friends, one incoming request, a few strangers, posts,
// comments, stories and catches.
func NewDemo() *Store {
	s := New()
	ctx := context.Background()
	repos := s.Repositories()
	now := time.Now()

	people := []user.User{
		{ID: DemoUserID, FirstName: "Demo", LastName: "Angler", HandleName: "demo"},
		{ID: "u-ada", FirstName: "Ada", LastName: "Lake", HandleName: "adalake"},
		{ID: "u-bo", FirstName: "Bo", LastName: "Rivers", HandleName: "bo"},
		{ID: "u-cam", FirstName: "Cam", LastName: "Reed", HandleName: "camreed"},
		{ID: "u-dee", FirstName: "Dee", LastName: "Marsh", HandleName: "deem"},
		{ID: "u-eli", FirstName: "Eli", LastName: "Brook", HandleName: "eli"},
	}
	for i := range people {
		_ = repos.Users.Save(ctx, &people[i])
	}

	s.friendships = append(s.friendships,
		friendship{id: uuid.NewString(), from: DemoUserID, to: "u-ada", status: user.StatusAccepted},
		friendship{id: uuid.NewString(), from: "u-bo", to: DemoUserID, status: user.StatusAccepted},
		friendship{id: uuid.NewString(), from: "u-cam", to: DemoUserID, status: user.StatusPending},
	)

	s.AddSpecies(seedSpecies...)

	for i := 0; i < 45; i++ {
		author := []string{DemoUserID, "u-ada", "u-bo"}[i%3]
		p := post.Post{
			UserID:    author,
			Timestamp: epoch.New(now.Add(-time.Duration(i) * time.Hour)),
			Content:   post.Content{Description: fmt.Sprintf("Morning session #%d", 45-i)},
			Tags:      []string{seedSpecies[i%len(seedSpecies)].EnglishName},
		}
		_ = repos.Posts.Save(ctx, &p)
		if i < 3 {
			for j, who := range []string{"u-ada", "u-bo", DemoUserID} {
				c := comment.Comment{UserID: who, PostID: p.ID, Content: fmt.Sprintf("Nice one (%d)", j+1)}
				_ = repos.Comments.Save(ctx, &c)
			}
		}
	}

	for _, who := range []string{"u-ada", "u-bo", "u-eli"} {
		st := story.Story{
			UserID:    who,
			VideoURL:  "https://cdn.example.com/stories/" + who + ".mp4",
			CreatedAt: epoch.New(now.Add(-time.Hour)),
		}
		_ = repos.Stories.Save(ctx, &st)
	}

	for i, sp := range seedSpecies[:5] {
		sp := sp
		s.AddCatch(DemoUserID, catch.Catch{
			Species:   &sp,
			CreatedAt: epoch.New(now.Add(-time.Duration(i) * 24 * time.Hour)),
			Weather:   &weather.Weather{TemperatureF: 68 + float64(i), WindSpeed: 4, WindDirection: 90 * i},
		})
	}
	return s
}
