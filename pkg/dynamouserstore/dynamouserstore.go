package dynamouserstore

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/weberc2/users/pkg/types"
)

// DynamoUserStore is a `types.UserStore` backed by a DynamoDB table
// keyed on the numeric `id` attribute. Item `0` is reserved for the id
// counter, which is advanced with an atomic `ADD` update so ids stay
// strictly increasing and are never reused.
type DynamoUserStore struct {
	Client *dynamodb.DynamoDB
	Table  string
}

const counterID = 0

func (dus *DynamoUserStore) List() ([]*types.User, error) {
	users := []*types.User{}

	var convErr error
	if err := dus.Client.ScanPages(
		&dynamodb.ScanInput{TableName: aws.String(dus.Table)},
		func(page *dynamodb.ScanOutput, lastPage bool) bool {
			for _, item := range page.Items {
				// skip the counter item
				if item["name"] == nil {
					continue
				}
				user, err := attributesToUser(item)
				if err != nil {
					convErr = err
					return false
				}
				users = append(users, user)
			}
			return true
		},
	); err != nil {
		return nil, fmt.Errorf("scanning users: %w", err)
	}
	if convErr != nil {
		return nil, fmt.Errorf("scanning users: %w", convErr)
	}

	// scan order isn't insertion order, but ids are assigned in
	// insertion order, so sorting by id restores it.
	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})

	return users, nil
}

func (dus *DynamoUserStore) Get(id types.UserID) (*types.User, error) {
	// user ids start at 1; item `counterID` holds the id counter and must
	// never be addressable as a user.
	if id <= counterID {
		return nil, types.ErrUserNotFound
	}

	rsp, err := dus.Client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(dus.Table),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if rsp.Item == nil {
		return nil, types.ErrUserNotFound
	}

	return attributesToUser(rsp.Item)
}

func (dus *DynamoUserStore) Create(user *types.User) (*types.User, error) {
	id, err := dus.nextID()
	if err != nil {
		return nil, err
	}

	cp := *user
	cp.ID = id
	if _, err := dus.Client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(dus.Table),
		Item:      userToAttributes(&cp),
	}); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &cp, nil
}

func (dus *DynamoUserStore) Update(id types.UserID, input *types.User) error {
	existing, err := dus.Get(id)
	if err != nil {
		return err
	}

	// merge-skip: empty/zero input fields mean "no change requested".
	if input.Name != "" {
		existing.Name = input.Name
	}
	if input.Email != "" {
		existing.Email = input.Email
	}
	if input.Age != 0 {
		existing.Age = input.Age
	}

	if _, err := dus.Client.PutItem(&dynamodb.PutItemInput{
		TableName:                aws.String(dus.Table),
		Item:                     userToAttributes(existing),
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]*string{"#id": aws.String("id")},
	}); err != nil {
		if isConditionFailed(err) {
			return types.ErrUserNotFound
		}
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (dus *DynamoUserStore) Delete(id types.UserID) error {
	// never delete the counter item; that would rewind the counter and
	// recycle ids.
	if id <= counterID {
		return types.ErrUserNotFound
	}

	if _, err := dus.Client.DeleteItem(&dynamodb.DeleteItemInput{
		TableName:                aws.String(dus.Table),
		Key:                      idKey(id),
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]*string{"#id": aws.String("id")},
	}); err != nil {
		if isConditionFailed(err) {
			return types.ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

func (dus *DynamoUserStore) nextID() (types.UserID, error) {
	rsp, err := dus.Client.UpdateItem(&dynamodb.UpdateItemInput{
		TableName:                aws.String(dus.Table),
		Key:                      idKey(counterID),
		UpdateExpression:         aws.String("ADD #next :one"),
		ExpressionAttributeNames: map[string]*string{"#next": aws.String("next")},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":one": {N: aws.String("1")},
		},
		ReturnValues: aws.String(dynamodb.ReturnValueUpdatedNew),
	})
	if err != nil {
		return 0, fmt.Errorf("advancing user id counter: %w", err)
	}

	next, err := strconv.Atoi(*rsp.Attributes["next"].N)
	if err != nil {
		return 0, fmt.Errorf("parsing user id counter: %w", err)
	}
	return types.UserID(next), nil
}

func isConditionFailed(err error) bool {
	if err, ok := err.(awserr.Error); ok {
		return err.Code() ==
			dynamodb.ErrCodeConditionalCheckFailedException
	}
	return false
}

func idKey(id types.UserID) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"id": {N: aws.String(strconv.Itoa(int(id)))},
	}
}

func userToAttributes(user *types.User) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"id":    {N: aws.String(strconv.Itoa(int(user.ID)))},
		"name":  {S: aws.String(user.Name)},
		"email": {S: aws.String(user.Email)},
		"age":   {N: aws.String(strconv.Itoa(user.Age))},
	}
}

func attributesToUser(
	attrs map[string]*dynamodb.AttributeValue,
) (*types.User, error) {
	// attributes may be absent on malformed items (e.g. the counter
	// item, which only carries `id` and `next`).
	if attrs["id"] == nil || attrs["id"].N == nil {
		return nil, fmt.Errorf("user item missing `id` attribute")
	}
	id, err := strconv.Atoi(*attrs["id"].N)
	if err != nil {
		return nil, fmt.Errorf("parsing user `id` attribute: %w", err)
	}
	if attrs["name"] == nil || attrs["name"].S == nil {
		return nil, fmt.Errorf("user item `%d` missing `name` attribute", id)
	}
	if attrs["email"] == nil || attrs["email"].S == nil {
		return nil, fmt.Errorf("user item `%d` missing `email` attribute", id)
	}
	if attrs["age"] == nil || attrs["age"].N == nil {
		return nil, fmt.Errorf("user item `%d` missing `age` attribute", id)
	}
	age, err := strconv.Atoi(*attrs["age"].N)
	if err != nil {
		return nil, fmt.Errorf("parsing user `age` attribute: %w", err)
	}
	return &types.User{
		ID:    types.UserID(id),
		Name:  *attrs["name"].S,
		Email: *attrs["email"].S,
		Age:   age,
	}, nil
}

var _ types.UserStore = &DynamoUserStore{}
