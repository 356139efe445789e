package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/labstack/gommon/log"
	"uk.co.dudmesh.gatehouse/internal/boot"
	"uk.co.dudmesh.gatehouse/internal/model"
	"uk.co.dudmesh.gatehouse/internal/store"
)

// Dev fixture loader. The directory is owned by another service in a real
// deployment; this fills the local membership tables so the moderation
// pipeline has something to chew on.
func main() {
	communities := flag.Int("communities", 3, "number of communities to create")
	members := flag.Int("members", 8, "members per community")
	moderators := flag.Int("moderators", 2, "moderators per community")
	flag.Parse()

	gofakeit.Seed(time.Now().UnixNano())

	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	datastore, err := store.Open(config)
	if err != nil {
		log.Fatalf("opening store: %+v", err)
	}
	defer datastore.Close()

	for i := 0; i < *communities; i++ {
		communityID := model.CommunityID(model.CreateID())
		name := gofakeit.NounAbstract()
		if err := datastore.AddCommunity(communityID, name); err != nil {
			log.Fatalf("creating community: %+v", err)
		}

		for j := 0; j < *members; j++ {
			role := model.RoleGeneral
			if j < *moderators {
				role = model.RoleModerator
			}
			userID := model.UserID(model.CreateID())
			if err := datastore.SetMember(communityID, userID, role); err != nil {
				log.Fatalf("adding member: %+v", err)
			}
			fmt.Printf("%s %s %s (%s)\n", communityID, userID, gofakeit.Username(), role)
		}
	}
}
