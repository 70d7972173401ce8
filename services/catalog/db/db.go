// Package db implements the catalog store interfaces on MongoDB. A
// discipline is one document with its classes embedded, so field patches
// are $set maps and class-level patches use the positional operator.
package db

import (
	"context"
	"errors"

	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/services/catalog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	disciplinesCollection = "disciplines"
	teachersCollection    = "teachers"
	studentsCollection    = "students"
)

type DisciplineStore struct {
	c *mongo.Collection
}

func NewDisciplineStore(database *mongo.Database) DisciplineStore {
	return DisciplineStore{c: database.Collection(disciplinesCollection)}
}

// EnsureIndexes creates the unique key indexes both stores rely on.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := database.Collection(disciplinesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "disciplineId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}
	_, err = database.Collection(teachersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}
	_, err = database.Collection(studentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "studentId", Value: 1}},
		Options: unique,
	})
	return err
}

func (s DisciplineStore) FindByKey(ctx context.Context, disciplineID string) (*catalog.Discipline, error) {
	var out catalog.Discipline
	err := s.c.FindOne(ctx, bson.M{"disciplineId": disciplineID}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s DisciplineStore) Insert(ctx context.Context, discipline *catalog.Discipline) error {
	_, err := s.c.InsertOne(ctx, discipline)
	return err
}

func (s DisciplineStore) PatchFields(ctx context.Context, disciplineID string, fields map[string]any) (int64, error) {
	set := bson.M{}
	for field, value := range fields {
		set[field] = value
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"disciplineId": disciplineID},
		bson.M{"$set": set},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s DisciplineStore) PatchClassWhatsappGroup(ctx context.Context, disciplineID string, classNumber int, link string) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"disciplineId": disciplineID, "classes.number": classNumber},
		bson.M{"$set": bson.M{"classes.$.whatsappGroup": link}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s DisciplineStore) ListAll(ctx context.Context) ([]catalog.Discipline, error) {
	cursor, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var out []catalog.Discipline
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type StudentStore struct {
	c *mongo.Collection
}

func NewStudentStore(database *mongo.Database) StudentStore {
	return StudentStore{c: database.Collection(studentsCollection)}
}

func (s StudentStore) FindByID(ctx context.Context, studentID string) (*catalog.Student, error) {
	var out catalog.Student
	err := s.c.FindOne(ctx, bson.M{"studentId": studentID}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s StudentStore) List(ctx context.Context) ([]catalog.Student, error) {
	opts := options.Find().SetSort(bson.D{{Key: "studentId", Value: 1}})
	cursor, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var out []catalog.Student
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s StudentStore) Insert(ctx context.Context, student *catalog.Student) error {
	_, err := s.c.InsertOne(ctx, student)
	return err
}

func (s StudentStore) PatchNames(ctx context.Context, studentID, name, lastName string) (int64, error) {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if lastName != "" {
		set["lastName"] = lastName
	}
	if len(set) == 0 {
		// nothing to write, but the caller still needs to know the key matched
		return s.c.CountDocuments(ctx, bson.M{"studentId": studentID})
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"studentId": studentID},
		bson.M{"$set": set},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s StudentStore) AddCompletedDiscipline(ctx context.Context, studentID, disciplineID string) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"studentId": studentID},
		bson.M{"$addToSet": bson.M{"completedDisciplines": disciplineID}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s StudentStore) RemoveCompletedDiscipline(ctx context.Context, studentID, disciplineID string) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"studentId": studentID},
		bson.M{"$pull": bson.M{"completedDisciplines": disciplineID}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s StudentStore) AddEnrollment(ctx context.Context, studentID string, enrollment catalog.Enrollment) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"studentId": studentID},
		bson.M{"$addToSet": bson.M{"currentDisciplines": enrollment}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s StudentStore) RemoveEnrollment(ctx context.Context, studentID string, enrollment catalog.Enrollment) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"studentId": studentID},
		bson.M{"$pull": bson.M{"currentDisciplines": enrollment}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s StudentStore) Delete(ctx context.Context, studentID string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"studentId": studentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

type TeacherStore struct {
	c *mongo.Collection
}

func NewTeacherStore(database *mongo.Database) TeacherStore {
	return TeacherStore{c: database.Collection(teachersCollection)}
}

func (s TeacherStore) FindByName(ctx context.Context, name string) (*catalog.Teacher, error) {
	var out catalog.Teacher
	err := s.c.FindOne(ctx, bson.M{"name": name}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s TeacherStore) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

func (s TeacherStore) Insert(ctx context.Context, teacher *catalog.Teacher) error {
	_, err := s.c.InsertOne(ctx, teacher)
	return err
}

func (s TeacherStore) ListAll(ctx context.Context) ([]catalog.Teacher, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var out []catalog.Teacher
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
