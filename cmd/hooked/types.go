package main

import (
	"hooked/internal/domain/catch"
	"hooked/internal/domain/comment"
	"hooked/internal/domain/species"
	"hooked/internal/domain/user"
)

type (
	commentItem = comment.Comment
	friendItem  = user.Friend
	userItem    = user.User
	speciesItem = species.Species
	catchItem   = catch.Catch
)
