package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// maxLeaveAdjustAttempts bounds the compare-and-swap loop in AdjustLeaveBalance.
const maxLeaveAdjustAttempts = 5

type employeeRepositoryImpl struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewEmployeeRepository(db *database.MongoDB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{
		coll: db.Database.Collection(employeesCollection),
		now:  time.Now,
	}
}

func activeFilter() bson.M {
	return bson.M{"is_working": true, "account_status": string(employee.AccountStatusActive)}
}

// mapDuplicateKey turns unique index violations into domain conflicts.
func mapDuplicateKey(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	if strings.Contains(err.Error(), emailIndex) {
		return employee.ErrEmailExists
	}
	return employee.ErrEmployeeIDExists
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate id: %w", err)
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	e.ID = id.String()
	e.CreatedAt = now
	e.UpdatedAt = now

	doc := toEmployeeDocument(e)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", mapDuplicateKey(err))
	}
	return doc.toEntity(), nil
}

func (r *employeeRepositoryImpl) findOne(ctx context.Context, filter bson.M) (employee.Employee, error) {
	var doc employeeDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.findOne(ctx, bson.M{"email": employee.NormalizeEmail(email)})
}

func (r *employeeRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (employee.Employee, error) {
	return r.findOne(ctx, bson.M{"employee_id": employeeID})
}

func (r *employeeRepositoryImpl) ExistsByEmployeeIDOrEmail(ctx context.Context, employeeID, email string) (bool, bool, error) {
	idCount, err := r.coll.CountDocuments(ctx, bson.M{"employee_id": employeeID}, options.Count().SetLimit(1))
	if err != nil {
		return false, false, fmt.Errorf("failed to check employee id: %w", err)
	}
	emailCount, err := r.coll.CountDocuments(ctx, bson.M{"email": employee.NormalizeEmail(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, false, fmt.Errorf("failed to check email: %w", err)
	}
	return idCount > 0, emailCount > 0, nil
}

// Update rewrites every profile and administrative field. Identity,
// credential and leave balance fields are left as stored.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	d := toEmployeeDocument(e)
	set := bson.M{
		"employee_name": d.EmployeeName, "employee_code": d.EmployeeCode, "gender": d.Gender,
		"department_id": d.DepartmentID, "designation": d.Designation, "team": d.Team,
		"role": d.Role, "employment_type": d.EmploymentType, "employee_status": d.EmployeeStatus,
		"account_status": d.AccountStatus, "manager_id": d.ManagerID, "team_lead_id": d.TeamLeadID,
		"doj": d.DOJ, "dor": d.DOR, "doc": d.DOC,
		"is_probation": d.IsProbation, "is_notice": d.IsNotice, "is_working": d.IsWorking, "is_inhouse": d.IsInhouse,
		"work_place": d.WorkPlace, "working_days": d.WorkingDays, "max_regularization": d.MaxRegularization,
		"max_short_leave": d.MaxShortLeave, "shift_time": d.ShiftTime, "record_status": d.RecordStatus,
		"employee_code_in_device": d.EmployeeCodeInDevice, "employee_device_password": d.EmployeeDevicePassword,
		"employee_device_group": d.EmployeeDeviceGroup, "master_device_id": d.MasterDeviceID,
		"father_name": d.FatherName, "mother_name": d.MotherName, "residential_address": d.ResidentialAddress,
		"permanent_address": d.PermanentAddress, "contact_no": d.ContactNo, "dob": d.DOB, "place_of_birth": d.PlaceOfBirth,
		"blood_group": d.BloodGroup, "extension_no": d.ExtensionNo, "aadhaar_number": d.AadhaarNumber,
		"pancard_no": d.PancardNo, "employee_photo": d.EmployeePhoto, "marital_status": d.MaritalStatus,
		"nationality": d.Nationality, "overall_experience": d.OverallExperience, "qualifications": d.Qualifications,
		"emergency_contact": d.EmergencyContact,
	}
	if err := r.updateByID(ctx, e.ID, set); err != nil {
		return employee.Employee{}, err
	}
	return r.GetByID(ctx, e.ID)
}

// updateByID applies a $set and stamps updated_at.
func (r *employeeRepositoryImpl) updateByID(ctx context.Context, id string, set bson.M) error {
	set["updated_at"] = r.now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if res.MatchedCount == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepositoryImpl) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]employee.Employee, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}

	employees := make([]employee.Employee, 0, len(docs))
	for _, d := range docs {
		employees = append(employees, d.toEntity())
	}
	return employees, nil
}

func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	filter.Normalize()

	query := bson.M{}
	if filter.DepartmentID != nil {
		query["department_id"] = *filter.DepartmentID
	}
	if filter.EmployeeStatus != nil {
		query["employee_status"] = *filter.EmployeeStatus
	}
	if filter.EmploymentType != nil {
		query["employment_type"] = *filter.EmploymentType
	}
	if filter.Role != nil {
		query["role"] = *filter.Role
	}
	if filter.IsWorking != nil {
		query["is_working"] = *filter.IsWorking
	}
	if filter.IsInhouse != nil {
		query["is_inhouse"] = *filter.IsInhouse
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	direction := -1
	if filter.SortOrder == "asc" {
		direction = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: filter.SortBy, Value: direction}, {Key: "_id", Value: direction}}).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.Limit))

	employees, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *employeeRepositoryImpl) Search(ctx context.Context, query string, limit int) ([]employee.Employee, error) {
	pattern := bson.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}

	filter := activeFilter()
	filter["$or"] = bson.A{
		bson.M{"employee_name": pattern},
		bson.M{"employee_id": pattern},
		bson.M{"employee_code": pattern},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "employee_name", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

func (r *employeeRepositoryImpl) ListActiveBy(ctx context.Context, field employee.DirectoryField, value string) ([]employee.Employee, error) {
	switch field {
	case employee.DirectoryFieldDepartment, employee.DirectoryFieldManager, employee.DirectoryFieldTeamLead:
	default:
		return nil, fmt.Errorf("unsupported directory field %q", field)
	}

	filter := activeFilter()
	filter[string(field)] = value
	opts := options.Find().SetSort(bson.D{{Key: "employee_name", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *employeeRepositoryImpl) Statistics(ctx context.Context) (employee.Statistics, error) {
	probation := activeFilter()
	probation["is_probation"] = true

	var s employee.Statistics
	for _, c := range []struct {
		filter bson.M
		dst    *int64
	}{
		{bson.M{}, &s.Total},
		{activeFilter(), &s.Active},
		{bson.M{"employee_status": string(employee.EmployeeStatusTerminated)}, &s.Terminated},
		{probation, &s.OnProbation},
	} {
		n, err := r.coll.CountDocuments(ctx, c.filter)
		if err != nil {
			return employee.Statistics{}, fmt.Errorf("failed to compute employee statistics: %w", err)
		}
		*c.dst = n
	}
	return s, nil
}

func (r *employeeRepositoryImpl) DepartmentHeadcount(ctx context.Context) ([]employee.DepartmentCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: activeFilter()}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$department_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count employees by department: %w", err)
	}

	var rows []struct {
		DepartmentID string `bson:"_id"`
		Count        int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode department counts: %w", err)
	}

	counts := make([]employee.DepartmentCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, employee.DepartmentCount{DepartmentID: row.DepartmentID, Count: row.Count})
	}
	return counts, nil
}

// AdjustLeaveBalance updates one counter with a compare-and-swap on its
// previous value, retrying when another writer got there first.
func (r *employeeRepositoryImpl) AdjustLeaveBalance(ctx context.Context, id string, leaveType employee.LeaveType, days decimal.Decimal, op employee.LeaveOperation) (employee.LeaveBalance, error) {
	if !leaveType.IsValid() {
		return employee.LeaveBalance{}, employee.ErrInvalidLeaveType
	}
	key := "leave_balance." + string(leaveType)

	for attempt := 0; attempt < maxLeaveAdjustAttempts; attempt++ {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return employee.LeaveBalance{}, err
		}

		next, err := current.LeaveBalance.Adjust(leaveType, days, op)
		if err != nil {
			return employee.LeaveBalance{}, err
		}

		prev, err := current.LeaveBalance.Get(leaveType)
		if err != nil {
			return employee.LeaveBalance{}, err
		}
		value, err := next.Get(leaveType)
		if err != nil {
			return employee.LeaveBalance{}, err
		}

		filter := bson.M{"_id": id, key: prev}
		update := bson.M{"$set": bson.M{key: value, "updated_at": r.now().UTC()}}
		res, err := r.coll.UpdateOne(ctx, filter, update)
		if err != nil {
			return employee.LeaveBalance{}, fmt.Errorf("failed to update leave balance: %w", err)
		}
		if res.MatchedCount == 1 {
			return next, nil
		}
	}
	return employee.LeaveBalance{}, employee.ErrConcurrentUpdate
}

func (r *employeeRepositoryImpl) SetLeaveBalance(ctx context.Context, id string, balance employee.LeaveBalance) error {
	return r.updateByID(ctx, id, bson.M{"leave_balance": toLeaveBalanceDocument(balance.WithDefaults())})
}

func (r *employeeRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{"password_hash": passwordHash})
}

func (r *employeeRepositoryImpl) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.updateByID(ctx, id, bson.M{"last_login_at": at.UTC()})
}

func (r *employeeRepositoryImpl) SetOTP(ctx context.Context, id string, secret string, issuedAt, expiresAt time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"otp_secret":      secret,
		"otp_issued_at":   issuedAt.UTC(),
		"otp_expires_at":  expiresAt.UTC(),
		"is_otp_verified": false,
		"otp_attempts":    0,
	})
}

func (r *employeeRepositoryImpl) MarkOTPVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{"is_otp_verified": true})
}

func clearedOTP() bson.M {
	return bson.M{
		"otp_secret":      nil,
		"otp_issued_at":   nil,
		"otp_expires_at":  nil,
		"is_otp_verified": false,
		"otp_attempts":    0,
	}
}

// RecordOTPFailure increments otp_attempts atomically and returns the new value.
func (r *employeeRepositoryImpl) RecordOTPFailure(ctx context.Context, id string) (int, error) {
	update := bson.M{
		"$inc": bson.M{"otp_attempts": 1},
		"$set": bson.M{"updated_at": r.now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"otp_attempts": 1})

	var doc struct {
		OTPAttempts int `bson:"otp_attempts"`
	}
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, employee.ErrEmployeeNotFound
		}
		return 0, fmt.Errorf("failed to record otp failure: %w", err)
	}
	return doc.OTPAttempts, nil
}

func (r *employeeRepositoryImpl) ClearOTP(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, clearedOTP())
}

func (r *employeeRepositoryImpl) ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	set := clearedOTP()
	set["updated_at"] = r.now().UTC()

	filter := bson.M{"otp_expires_at": bson.M{"$ne": nil, "$lte": now.UTC()}}
	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired otps: %w", err)
	}
	return res.ModifiedCount, nil
}
